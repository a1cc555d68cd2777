package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "contacts-api/internal/domain/contact"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultListLimit is applied when a list request carries no limit.
	DefaultListLimit = 100
	// MaxListLimit caps the page size of list requests.
	MaxListLimit = 100
	// BirthdayWindowDays is the lookahead window for upcoming birthdays.
	BirthdayWindowDays = 7
)

// Repository defines the interface for contact data access operations.
// All reads and mutations are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, c *domain.Contact) (int64, error)
	GetByID(ctx context.Context, id, ownerID int64) (*domain.Contact, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	Delete(ctx context.Context, id, ownerID int64) (*domain.Contact, error)
}

// Service implements the business logic for contact management operations.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New(), now: time.Now}
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

func toDTO(c *domain.Contact) *Contact {
	return &Contact{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday,
		AdditionalInfo: c.AdditionalInfo,
	}
}

// CreateContact creates a new contact owned by the given user.
func (s *Service) CreateContact(ctx context.Context, ownerID int64, in ContactInput) (*Contact, error) {
	s.log.Info("creating contact", zap.Int64("owner_id", ownerID), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	id, err := s.repo.Create(ctx, &domain.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
		OwnerID:        ownerID,
	})
	if err != nil {
		s.log.Error("failed to create contact", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return toDTO(created), nil
}

// GetContact retrieves a single contact owned by the given user.
func (s *Service) GetContact(ctx context.Context, ownerID, id int64) (*Contact, error) {
	c, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// ListContacts retrieves a page of the user's contacts.
func (s *Service) ListContacts(ctx context.Context, ownerID int64, in ListContactsRequest) ([]Contact, error) {
	if in.Skip < 0 {
		in.Skip = 0
	}
	if in.Limit <= 0 {
		in.Limit = DefaultListLimit
	}
	if in.Limit > MaxListLimit {
		in.Limit = MaxListLimit
	}

	s.log.Debug("listing contacts", zap.Int64("owner_id", ownerID), zap.Int("skip", in.Skip), zap.Int("limit", in.Limit))

	contacts, err := s.repo.ListByOwner(ctx, ownerID, in.Skip, in.Limit)
	if err != nil {
		s.log.Error("failed to list contacts", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	out := make([]Contact, len(contacts))
	for i := range contacts {
		out[i] = *toDTO(&contacts[i])
	}
	return out, nil
}

// UpdateContact replaces a contact's fields, scoped to the owning user.
func (s *Service) UpdateContact(ctx context.Context, ownerID, id int64, in ContactInput) (*Contact, error) {
	s.log.Info("updating contact", zap.Int64("id", id), zap.Int64("owner_id", ownerID))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	updated, err := s.repo.Update(ctx, &domain.Contact{
		ID:             id,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
		OwnerID:        ownerID,
	})
	if err != nil {
		s.log.Error("failed to update contact", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toDTO(updated), nil
}

// DeleteContact deletes a contact owned by the given user and returns the
// deleted record.
func (s *Service) DeleteContact(ctx context.Context, ownerID, id int64) (*Contact, error) {
	s.log.Info("deleting contact", zap.Int64("id", id), zap.Int64("owner_id", ownerID))

	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		s.log.Error("failed to delete contact", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toDTO(deleted), nil
}

// UpcomingBirthdays returns the user's contacts whose birthday falls within
// the next BirthdayWindowDays days, inclusive of today. The birth year is
// ignored and the window wraps across year end.
func (s *Service) UpcomingBirthdays(ctx context.Context, ownerID int64) ([]Contact, error) {
	contacts, err := s.repo.ListByOwner(ctx, ownerID, 0, 0)
	if err != nil {
		s.log.Error("failed to list contacts for birthdays", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	today := s.now()
	out := make([]Contact, 0)
	for i := range contacts {
		if contacts[i].BirthdayWithin(today, BirthdayWindowDays) {
			out = append(out, *toDTO(&contacts[i]))
		}
	}

	s.log.Debug("upcoming birthdays computed",
		zap.Int64("owner_id", ownerID),
		zap.Int("matches", len(out)),
	)
	return out, nil
}
