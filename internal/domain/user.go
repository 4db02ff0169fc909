package domain

import "time"

// User represents a registered account. PasswordHash never leaves the
// service layer; handlers only ever see sanitized copies.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
