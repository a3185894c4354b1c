package models

import "time"

// RefreshToken is a server-stored, single-use token that can be exchanged
// for a new token pair until Expires.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return !t.Expires.After(now)
}
