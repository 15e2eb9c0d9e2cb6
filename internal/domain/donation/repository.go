package donation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HistoryEntry is a donation joined with the names a donor sees in their
// giving history.
type HistoryEntry struct {
	Donation
	CharityName  string  `json:"charity_name"`
	ProjectTitle *string `json:"project_title,omitempty"`
}

// Repository defines donation persistence operations
type Repository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	SetPaymentHandle(ctx context.Context, id uuid.UUID, handle string) error

	// LockPending acquires a row lock on the donation and requires its status
	// to be exactly pending. Returns ErrDonationNotFound for unknown ids and
	// ErrDonationNotPending once the donation reached a terminal state; both
	// serve as the idempotency guard for duplicate webhook delivery.
	LockPending(ctx context.Context, id uuid.UUID) (*Donation, error)

	// MarkCompleted moves a pending donation to completed with its external
	// transaction reference and settlement timestamp.
	MarkCompleted(ctx context.Context, id uuid.UUID, externalRef string, settledAt time.Time) error

	// MarkFailed moves a pending donation to failed.
	MarkFailed(ctx context.Context, id uuid.UUID) error

	// ListCompletedByDonor returns a donor's completed donations newest first,
	// joined with charity and project names.
	ListCompletedByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*HistoryEntry, error)
	CountCompletedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error)

	// GetCompletedForDonor retrieves a completed donation owned by the donor,
	// used for receipt access control.
	GetCompletedForDonor(ctx context.Context, id, donorID uuid.UUID) (*Donation, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrDonationNotFound indicates missing donation
type ErrDonationNotFound struct {
	DonationID uuid.UUID
}

func (e ErrDonationNotFound) Error() string {
	return "donation not found: " + e.DonationID.String()
}

// Is implements the errors.Is interface for ErrDonationNotFound
func (e ErrDonationNotFound) Is(target error) bool {
	t, ok := target.(ErrDonationNotFound)
	if !ok {
		return false
	}
	if t.DonationID == uuid.Nil {
		return true
	}
	return e.DonationID == t.DonationID
}

// ErrDonationNotPending indicates the donation already reached a terminal state
type ErrDonationNotPending struct {
	DonationID uuid.UUID
	Status     Status
}

func (e ErrDonationNotPending) Error() string {
	return "donation " + e.DonationID.String() + " is not pending: " + string(e.Status)
}

// Is implements the errors.Is interface for ErrDonationNotPending
func (e ErrDonationNotPending) Is(target error) bool {
	t, ok := target.(ErrDonationNotPending)
	if !ok {
		return false
	}
	if t.DonationID == uuid.Nil {
		return true
	}
	return e.DonationID == t.DonationID
}
