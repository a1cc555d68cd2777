package user

// User represents a registered account in the system.
type User struct {
	ID               int64  // ID is the unique identifier for the user
	Email            string // Email is the unique email address of the user
	HashedPassword   string // HashedPassword is the bcrypt hash of the user's password
	IsActive         bool   // IsActive reports whether the account is enabled
	IsVerified       bool   // IsVerified reports whether the email address has been verified
	VerificationCode string // VerificationCode is the pending email verification code, empty once verified
	AvatarURL        string // AvatarURL is the hosted avatar image URL, empty when unset
}
