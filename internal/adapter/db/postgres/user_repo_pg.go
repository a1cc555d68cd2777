package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
)

// UserRepoPG implements the user repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	Email            string  `gorm:"not null;uniqueIndex"`
	HashedPassword   string  `gorm:"not null"`
	IsActive         bool    `gorm:"not null;default:true"`
	IsVerified       bool    `gorm:"not null;default:false"`
	VerificationCode *string `gorm:"uniqueIndex"` // NULL once the email is verified
	AvatarURL        string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (s *UserSchema) toDomain() *user.User {
	u := &user.User{
		ID:             s.ID,
		Email:          s.Email,
		HashedPassword: s.HashedPassword,
		IsActive:       s.IsActive,
		IsVerified:     s.IsVerified,
		AvatarURL:      s.AvatarURL,
	}
	if s.VerificationCode != nil {
		u.VerificationCode = *s.VerificationCode
	}
	return u
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		IsVerified:     u.IsVerified,
		AvatarURL:      u.AvatarURL,
	}
	if u.VerificationCode != "" {
		model.VerificationCode = &u.VerificationCode
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user by email address. Returns nil when no user
// holds that email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return model.toDomain(), nil
}

// GetByVerificationCode retrieves a user by pending verification code.
// Returns nil when no user holds that code.
func (r *UserRepoPG) GetByVerificationCode(ctx context.Context, code string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("verification_code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by verification code")
			return nil, nil
		}
		r.log.Error("failed to get user by verification code from db", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by verification code: %w", err)
	}

	return model.toDomain(), nil
}

// MarkVerified flags the user as verified and clears the stored code.
func (r *UserRepoPG) MarkVerified(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Updates(map[string]any{
		"is_verified":       true,
		"verification_code": nil,
	})
	if res.Error != nil {
		r.log.Error("failed to mark user verified", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to mark user verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "User not found")
	}

	r.log.Info("user verified", zap.Int64("id", id))
	return nil
}

// UpdateAvatarURL replaces the user's stored avatar URL.
func (r *UserRepoPG) UpdateAvatarURL(ctx context.Context, id int64, url string) error {
	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Update("avatar_url", url)
	if res.Error != nil {
		r.log.Error("failed to update avatar url", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to update avatar url: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "User not found")
	}

	r.log.Info("avatar url updated", zap.Int64("id", id))
	return nil
}
