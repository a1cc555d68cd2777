package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/usecase/user"
)

// UserHandler handles HTTP requests for user profile operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UpdateAvatar handles POST /users/:id/avatar. The image arrives as a
// multipart form file under the "file" field.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
		})
		return
	}

	idStr := c.Param("id")
	targetID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.log.Warn("Missing avatar file", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "A file upload named 'file' is required",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		handleError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.uc.UpdateAvatar(c.Request.Context(), targetID, u, fileHeader.Filename, f)
	if err != nil {
		h.log.Warn("UpdateAvatar failed", zap.Int64("target_id", targetID), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:         resp.ID,
		Email:      resp.Email,
		IsActive:   resp.IsActive,
		IsVerified: resp.IsVerified,
		AvatarURL:  resp.AvatarURL,
	})
}
