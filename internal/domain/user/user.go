package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyPassword = errors.New("password hash cannot be empty")
	ErrInvalidRole   = errors.New("invalid user role")
)

// Role defines the account types on the platform
type Role string

const (
	RoleDonor   Role = "donor"
	RoleCharity Role = "charity"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known account types
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleCharity || r == RoleAdmin
}

// User represents a platform account: donor, charity owner or admin
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// New creates a user account with the given role
func New(email, passwordHash, fullName string, role Role) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
