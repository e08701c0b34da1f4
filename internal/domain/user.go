package domain

import "time"

// MaxUsernameLength mirrors the users.username column width.
const MaxUsernameLength = 150

// MaxEmailLength mirrors the users.email column width.
const MaxEmailLength = 254

// User is an applicant account. Only the bcrypt hash of the password is kept.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
