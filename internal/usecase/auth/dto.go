package auth

// RegisterRequest represents the payload for registering a new user.
type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// User represents a user DTO for API responses. The password hash and
// pending verification code are never exposed.
type User struct {
	ID         int64
	Email      string
	IsActive   bool
	IsVerified bool
	AvatarURL  string
}

// LoginRequest represents the payload for authenticating a user.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Token represents an issued access token.
type Token struct {
	AccessToken string
	TokenType   string
}
