// Package models defines server-side rows that never leave the record
// store: credential material and refresh tokens.
package models

import (
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// User is a users row including the login salt and verifier.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Salt        []byte
	Verifier    []byte
	CreatedAt   time.Time
}

// Public strips credential material.
func (u *User) Public() models.User {
	return models.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}
