package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListFilter narrows and pages admin user listings
type ListFilter struct {
	Role   Role // empty matches all roles
	Limit  int
	Offset int
}

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail returns nil, nil when no account exists for the email
	GetByEmail(ctx context.Context, email string) (*User, error)

	List(ctx context.Context, filter ListFilter) ([]*User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)

	UpdateProfile(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrUserNotFound indicates missing user
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrUserNotFound
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrDuplicateEmail indicates email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "email already registered: " + e.Email
}
