package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/internal/domain/contact"
	pkgerrors "contacts-api/pkg/errors"
)

// ContactRepoPG implements the contact repository interface using PostgreSQL and GORM.
type ContactRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewContactRepoPG creates a new instance of ContactRepoPG.
func NewContactRepoPG(db *gorm.DB, log *zap.Logger) *ContactRepoPG {
	return &ContactRepoPG{db: db, log: log}
}

// ContactSchema represents the database schema for the contacts table.
type ContactSchema struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	FirstName      string    `gorm:"not null;index"`
	LastName       string    `gorm:"not null;index"`
	Email          string    `gorm:"not null;uniqueIndex"`
	PhoneNumber    string    `gorm:"not null;index"`
	Birthday       time.Time `gorm:"type:date"`
	AdditionalInfo string
	OwnerID        int64 `gorm:"not null;index"`
}

// TableName specifies the table name for the ContactSchema model.
func (ContactSchema) TableName() string {
	return "contacts"
}

func (s *ContactSchema) toDomain() *contact.Contact {
	return &contact.Contact{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		PhoneNumber:    s.PhoneNumber,
		Birthday:       s.Birthday,
		AdditionalInfo: s.AdditionalInfo,
		OwnerID:        s.OwnerID,
	}
}

func contactToSchema(c *contact.Contact) ContactSchema {
	return ContactSchema{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday,
		AdditionalInfo: c.AdditionalInfo,
		OwnerID:        c.OwnerID,
	}
}

// Create inserts a new contact into the database.
func (r *ContactRepoPG) Create(ctx context.Context, c *contact.Contact) (int64, error) {
	if c == nil {
		return 0, errors.New("contact cannot be nil")
	}

	model := contactToSchema(c)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create contact in db", zap.Error(err), zap.Int64("owner_id", c.OwnerID))
		return 0, fmt.Errorf("failed to create contact: %w", err)
	}

	r.log.Info("contact created in db", zap.Int64("id", model.ID), zap.Int64("owner_id", c.OwnerID))
	return model.ID, nil
}

// GetByID retrieves a contact by ID, scoped to its owner. A contact owned
// by a different user is reported as not found.
func (r *ContactRepoPG) GetByID(ctx context.Context, id, ownerID int64) (*contact.Contact, error) {
	var model ContactSchema
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("contact not found", zap.Int64("id", id), zap.Int64("owner_id", ownerID))
			return nil, pkgerrors.NewNotFoundError("contact", "Contact not found")
		}
		r.log.Error("failed to get contact from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return model.toDomain(), nil
}

// ListByOwner retrieves the owner's contacts with offset pagination.
// A non-positive limit disables the limit.
func (r *ContactRepoPG) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]contact.Contact, error) {
	if limit <= 0 {
		limit = -1
	}

	var models []ContactSchema
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list contacts from db", zap.Error(err), zap.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = *model.toDomain()
	}
	return contacts, nil
}

// Update replaces an existing contact's fields, scoped to its owner.
func (r *ContactRepoPG) Update(ctx context.Context, c *contact.Contact) (*contact.Contact, error) {
	if c == nil {
		return nil, errors.New("contact cannot be nil")
	}

	res := r.db.WithContext(ctx).
		Model(&ContactSchema{}).
		Where("id = ? AND owner_id = ?", c.ID, c.OwnerID).
		Updates(map[string]any{
			"first_name":      c.FirstName,
			"last_name":       c.LastName,
			"email":           c.Email,
			"phone_number":    c.PhoneNumber,
			"birthday":        c.Birthday,
			"additional_info": c.AdditionalInfo,
		})
	if res.Error != nil {
		r.log.Error("failed to update contact in db", zap.Error(res.Error), zap.Int64("id", c.ID))
		return nil, fmt.Errorf("failed to update contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.NewNotFoundError("contact", "Contact not found")
	}

	r.log.Info("contact updated in db", zap.Int64("id", c.ID))
	return r.GetByID(ctx, c.ID, c.OwnerID)
}

// Delete removes a contact, scoped to its owner, and returns the deleted record.
func (r *ContactRepoPG) Delete(ctx context.Context, id, ownerID int64) (*contact.Contact, error) {
	existing, err := r.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&ContactSchema{}).Error; err != nil {
		r.log.Error("failed to delete contact in db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	r.log.Info("contact deleted in db", zap.Int64("id", id))
	return existing, nil
}
