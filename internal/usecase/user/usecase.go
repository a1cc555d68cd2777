package user

import (
	"context"
	"io"

	"go.uber.org/zap"

	domain "contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/imagestore"
)

// Repository defines the user persistence operations this service needs.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateAvatarURL(ctx context.Context, id int64, url string) error
}

// Service implements user profile operations.
type Service struct {
	repo     Repository
	uploader imagestore.Uploader
	log      *zap.Logger
}

// New creates a new instance of Service.
func New(r Repository, uploader imagestore.Uploader, log *zap.Logger) *Service {
	return &Service{
		repo:     r,
		uploader: uploader,
		log:      log,
	}
}

// UpdateAvatar uploads the image to the hosting service and persists the
// returned URL on the user record.
func (s *Service) UpdateAvatar(ctx context.Context, targetID int64, current *domain.User, filename string, file io.Reader) (*User, error) {
	if current == nil || current.ID != targetID {
		s.log.Warn("avatar update rejected",
			zap.Int64("target_id", targetID),
		)
		return nil, pkgerrors.NewForbiddenError("Not authorized to update this user's avatar")
	}

	url, err := s.uploader.Upload(ctx, filename, file)
	if err != nil {
		s.log.Error("avatar upload failed", zap.Int64("user_id", targetID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to upload avatar", err)
	}

	if err := s.repo.UpdateAvatarURL(ctx, targetID, url); err != nil {
		s.log.Error("failed to store avatar url", zap.Int64("user_id", targetID), zap.Error(err))
		return nil, err
	}

	s.log.Info("avatar updated", zap.Int64("user_id", targetID))
	return &User{
		ID:         current.ID,
		Email:      current.Email,
		IsActive:   current.IsActive,
		IsVerified: current.IsVerified,
		AvatarURL:  url,
	}, nil
}
