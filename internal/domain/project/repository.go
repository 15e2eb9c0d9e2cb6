package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines project persistence operations
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// GetForCharity retrieves a project only if it belongs to the given
	// charity. Returns ErrProjectNotFound otherwise, so a donation can never
	// be earmarked for another charity's project.
	GetForCharity(ctx context.Context, id, charityID uuid.UUID) (*Project, error)

	ListByCharity(ctx context.Context, charityID uuid.UUID) ([]*Project, error)

	// AddToRaised increments the project's cumulative raised amount. Called
	// only by the settlement path inside its database transaction.
	AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error

	WithTx(tx pgx.Tx) Repository
}

// ErrProjectNotFound indicates a missing project or a charity mismatch
type ErrProjectNotFound struct {
	ProjectID uuid.UUID
}

func (e ErrProjectNotFound) Error() string {
	return "project not found under this charity: " + e.ProjectID.String()
}

// Is implements the errors.Is interface for ErrProjectNotFound
func (e ErrProjectNotFound) Is(target error) bool {
	t, ok := target.(ErrProjectNotFound)
	if !ok {
		return false
	}
	if t.ProjectID == uuid.Nil {
		return true
	}
	return e.ProjectID == t.ProjectID
}
