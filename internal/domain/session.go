package domain

import "time"

// Session is a server-side login session keyed by an opaque token. The
// token reaches the client only inside a signed cookie value. ExpiresAt
// is an idle deadline: it slides forward on every authenticated request.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session's idle deadline has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
