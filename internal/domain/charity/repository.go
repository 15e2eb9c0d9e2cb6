package charity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListFilter narrows and pages public charity listings
type ListFilter struct {
	Search string // matches name, mission or description
	Limit  int
	Offset int
}

// Repository defines charity persistence operations
type Repository interface {
	Create(ctx context.Context, c *Charity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Charity, error)

	// GetApproved retrieves a charity only if it is in approved state.
	// Returns ErrCharityNotFound otherwise; unapproved charities are not
	// visible to donors.
	GetApproved(ctx context.Context, id uuid.UUID) (*Charity, error)

	ListApproved(ctx context.Context, filter ListFilter) ([]*Charity, error)
	CountApproved(ctx context.Context, filter ListFilter) (int64, error)

	UpdateProfile(ctx context.Context, c *Charity) error
	SetGoal(ctx context.Context, id uuid.UUID, goal int64) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// AddToRaised increments the charity's cumulative raised amount. Called
	// only by the settlement path inside its database transaction.
	AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error

	WithTx(tx pgx.Tx) Repository
}

// ErrCharityNotFound indicates a missing or unapproved charity
type ErrCharityNotFound struct {
	CharityID uuid.UUID
}

func (e ErrCharityNotFound) Error() string {
	return "charity not found or not approved: " + e.CharityID.String()
}

// Is implements the errors.Is interface for ErrCharityNotFound
func (e ErrCharityNotFound) Is(target error) bool {
	t, ok := target.(ErrCharityNotFound)
	if !ok {
		return false
	}
	if t.CharityID == uuid.Nil {
		return true
	}
	return e.CharityID == t.CharityID
}

// ErrDuplicateCharityName indicates name uniqueness violation
type ErrDuplicateCharityName struct {
	Name string
}

func (e ErrDuplicateCharityName) Error() string {
	return "charity with this name already exists: " + e.Name
}
