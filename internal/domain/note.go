package domain

import "time"

// Note is a single note owned by exactly one user. UserID is set at
// creation and never changes; every read or mutation must verify the
// caller owns the note.
type Note struct {
	ID        int64
	UserID    int64
	Title     string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
