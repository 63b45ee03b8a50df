package models

import (
	"fmt"
	"net/mail"
	"strings"
)

// User is an account that owns playlists and a liked-songs set.
type User struct {
	entity
	email   string
	name    string
	avatar  string
	isAdmin bool
}

// NewUser creates a new [User] with the given sequence, email, and name.
func NewUser(sequence int, email, name string) *User {
	return &User{entity: newEntity(sequence), email: strings.ToLower(strings.TrimSpace(email)), name: name}
}

func (u *User) Email() string { return u.email }
func (u *User) Name() string { return u.name }
func (u *User) Avatar() string { return u.avatar }
func (u *User) IsAdmin() bool { return u.isAdmin }

func (u *User) SetEmail(email string) { u.email = strings.ToLower(strings.TrimSpace(email)) }
func (u *User) SetName(name string) { u.name = name }
func (u *User) SetAvatar(avatar string) { u.avatar = avatar }
func (u *User) SetAdmin(admin bool) { u.isAdmin = admin }

// Validate requires an id, a parseable email, and a name.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user id is required")
	}
	if u.email == "" {
		return fmt.Errorf("user email is required")
	}
	if _, err := mail.ParseAddress(u.email); err != nil {
		return fmt.Errorf("user email is invalid: %w", err)
	}
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("user name is required")
	}
	return nil
}
