// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Admin        bool      `json:"admin"`
	RegisteredAt time.Time `json:"registered_at"`
}

// StatusUpdate carries the admin-controlled flags of a User.
// Nil fields are left untouched.
type StatusUpdate struct {
	Active *bool `json:"active,omitempty"`
	Admin  *bool `json:"admin,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u StatusUpdate) Empty() bool {
	return u.Active == nil && u.Admin == nil
}

// Apply copies the set flags onto user.
func (u StatusUpdate) Apply(user *User) {
	if u.Active != nil {
		user.Active = *u.Active
	}
	if u.Admin != nil {
		user.Admin = *u.Admin
	}
}
