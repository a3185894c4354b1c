package models

// User is the authenticated actor as seen by the rest of the system. It
// comes from the auth boundary and is never mutated by the client.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Name returns the display name, falling back to the email address.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
