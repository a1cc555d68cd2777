package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/usecase/auth"
)

// AuthHandler handles HTTP requests for registration and authentication
type AuthHandler struct {
	uc  auth.Usecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterRequest represents the HTTP request body for registering a user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// TokenResponse represents the HTTP response for a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /users/
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("Register failed", zap.Error(err))
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

// VerifyEmail handles GET /verify/:code
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	code := c.Param("code")

	if err := h.uc.VerifyEmail(c.Request.Context(), code); err != nil {
		h.log.Warn("VerifyEmail failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email successfully verified",
	})
}

// Login handles POST /token. Credentials arrive form-encoded with the
// email in the username field, matching the OAuth2 password flow shape.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		h.log.Warn("Login failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	})
}
