package auth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/mail"
	"contacts-api/pkg/security"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationCode(ctx context.Context, code string) (*domain.User, error)
	MarkVerified(ctx context.Context, id int64) error
	UpdateAvatarURL(ctx context.Context, id int64, url string) error
}

// Service implements registration, email verification and login.
type Service struct {
	repo     Repository
	hasher   *security.PasswordHasher
	tokens   *security.TokenManager
	mailer   mail.Sender
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Service.
func New(r Repository, hasher *security.PasswordHasher, tokens *security.TokenManager, mailer mail.Sender, log *zap.Logger) *Service {
	return &Service{
		repo:     r,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		log:      log,
		validate: validator.New(),
	}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return fmt.Errorf("validation failed: %s", strings.Join(messages, ", "))
	}
	return err
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:         u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
	}
}

// Register creates a new unverified user and emails a verification code.
// Mail delivery failure is logged but does not fail the registration; the
// user can request verification again through support channels.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	s.log.Info("registering user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		s.log.Warn("email already registered", zap.String("email", in.Email))
		return nil, pkgerrors.NewAlreadyExistsError("user", "Email already registered")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	code, err := security.GenerateVerificationCode()
	if err != nil {
		s.log.Error("failed to generate verification code", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to generate verification code", err)
	}

	u := &domain.User{
		Email:            in.Email,
		HashedPassword:   hashed,
		IsActive:         true,
		IsVerified:       false,
		VerificationCode: code,
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	if err := s.mailer.SendVerificationCode(ctx, u.Email, code); err != nil {
		s.log.Warn("verification email delivery failed",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
	}

	return toDTO(u), nil
}

// VerifyEmail marks the user holding the given code as verified and clears
// the code so it cannot be reused.
func (s *Service) VerifyEmail(ctx context.Context, code string) error {
	if code == "" {
		return pkgerrors.NewNotFoundError("user", "User not found")
	}

	u, err := s.repo.GetByVerificationCode(ctx, code)
	if err != nil {
		s.log.Error("failed to look up verification code", zap.Error(err))
		return err
	}
	if u == nil {
		s.log.Warn("verification code not found")
		return pkgerrors.NewNotFoundError("user", "User not found")
	}

	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		s.log.Error("failed to mark user verified", zap.Int64("id", u.ID), zap.Error(err))
		return err
	}

	s.log.Info("email verified", zap.Int64("user_id", u.ID))
	return nil
}

// Login authenticates a user by email and password and issues an access
// token. Unknown emails and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*Token, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.NewUnauthorizedError("Incorrect username or password")
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to look up user for login", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil || !s.hasher.Verify(in.Password, u.HashedPassword) {
		s.log.Warn("login failed", zap.String("email", in.Email))
		return nil, pkgerrors.NewUnauthorizedError("Incorrect username or password")
	}

	accessToken, err := s.tokens.Generate(u.Email)
	if err != nil {
		s.log.Error("failed to issue access token", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue access token", err)
	}

	s.log.Info("user logged in", zap.Int64("user_id", u.ID))
	return &Token{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.tokens.Parse(accessToken)
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, pkgerrors.NewUnauthorizedError("Could not validate credentials")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to load user for token", zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, pkgerrors.NewUnauthorizedError("Could not validate credentials")
	}

	return u, nil
}
