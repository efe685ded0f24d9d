package model

import (
	"fmt"
	"time"
)

// User represents an authentication user. Users are provisioned out of band
// and are read-only to the HTTP API.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Roles.
const (
	RoleBoss = "boss"
	RoleUser = "user"
)

// HasRole reports whether role is exactly the required role. There is no
// hierarchy: any role other than the required one is rejected.
func HasRole(role, required string) bool {
	return required != "" && role == required
}

// ValidRole reports whether role is one the application knows about.
func ValidRole(role string) bool {
	return role == RoleBoss || role == RoleUser
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
