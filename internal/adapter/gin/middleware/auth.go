package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/usecase/auth"
	"contacts-api/pkg/logger"
)

// CurrentUserKey is the gin context key holding the authenticated *user.User.
const CurrentUserKey = "current_user"

// RequireAuth returns a Gin middleware that validates the bearer token on
// the request and stores the resolved user in the context. Requests without
// a valid token are rejected with 401.
func RequireAuth(authUsecase auth.Usecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "Not authenticated")
			return
		}

		u, err := authUsecase.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("authentication failed", zap.Error(err))
			unauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(CurrentUserKey, u)

		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, u.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
	c.Abort()
}
