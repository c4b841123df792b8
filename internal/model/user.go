package model

import (
	"errors"
	"time"
)

// User represents a registered visitor in the system
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ViewCount      int64     `db:"view_count" json:"view_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect.
	// The same error covers both an unknown username and a wrong password so
	// responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is returned for missing or malformed user input
	ErrValidation = errors.New("validation failed")
)
