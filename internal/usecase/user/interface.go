package user

import (
	"context"
	"io"

	domain "contacts-api/internal/domain/user"
)

// Usecase defines user profile operations.
type Usecase interface {
	// UpdateAvatar uploads a new avatar image for the target user and
	// stores the resulting URL. Only the account owner may change it.
	UpdateAvatar(ctx context.Context, targetID int64, current *domain.User, filename string, file io.Reader) (*User, error)
}
