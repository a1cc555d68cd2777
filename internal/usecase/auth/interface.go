package auth

import (
	"context"

	domain "contacts-api/internal/domain/user"
)

// Usecase defines the interface for registration and authentication logic.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*User, error)
	VerifyEmail(ctx context.Context, code string) error
	Login(ctx context.Context, in LoginRequest) (*Token, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
