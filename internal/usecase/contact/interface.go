package contact

import "context"

// Usecase defines the interface for contact business logic operations.
type Usecase interface {
	CreateContact(ctx context.Context, ownerID int64, in ContactInput) (*Contact, error)
	GetContact(ctx context.Context, ownerID, id int64) (*Contact, error)
	ListContacts(ctx context.Context, ownerID int64, in ListContactsRequest) ([]Contact, error)
	UpdateContact(ctx context.Context, ownerID, id int64, in ContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, ownerID, id int64) (*Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID int64) ([]Contact, error)
}
