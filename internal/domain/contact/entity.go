package contact

import "time"

// Contact represents an address-book entry owned by a user.
type Contact struct {
	ID             int64     // ID is the unique identifier for the contact
	FirstName      string    // FirstName is the contact's first name
	LastName       string    // LastName is the contact's last name
	Email          string    // Email is the contact's email address
	PhoneNumber    string    // PhoneNumber is the contact's phone number
	Birthday       time.Time // Birthday is the contact's date of birth
	AdditionalInfo string    // AdditionalInfo holds free-form notes, may be empty
	OwnerID        int64     // OwnerID is the ID of the user who owns this contact
}

// BirthdayWithin reports whether the contact's birthday (month and day,
// birth year ignored) falls within days days of from, inclusive on both
// ends. Birthdays late in December match query dates that cross into the
// next year.
func (c Contact) BirthdayWithin(from time.Time, days int) bool {
	if c.Birthday.IsZero() {
		return false
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	// The birthday may next occur this year or the following year.
	for _, year := range []int{from.Year(), from.Year() + 1} {
		next := time.Date(year, c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
		diff := int(next.Sub(from).Hours() / 24)
		if diff >= 0 && diff <= days {
			return true
		}
	}
	return false
}
