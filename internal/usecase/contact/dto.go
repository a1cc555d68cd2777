package contact

import "time"

// ContactInput represents the payload for creating or updating a contact.
type ContactInput struct {
	FirstName      string    `validate:"required,min=1,max=100"`
	LastName       string    `validate:"required,min=1,max=100"`
	Email          string    `validate:"required,email"`
	PhoneNumber    string    `validate:"required,min=3,max=30"`
	Birthday       time.Time `validate:"required"`
	AdditionalInfo string    `validate:"omitempty,max=500"`
}

// Contact represents a contact DTO for API responses.
type Contact struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo string
}

// ListContactsRequest represents the request payload for listing contacts.
// Skip and Limit implement offset pagination.
type ListContactsRequest struct {
	Skip  int
	Limit int
}
