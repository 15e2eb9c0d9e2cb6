package donation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
	ErrNotPending            = errors.New("donation is not in pending state")
)

// Status defines the donation settlement states. A donation starts as
// StatusPending and moves exactly once to StatusCompleted or StatusFailed;
// terminal states are never left.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status can no longer change
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Donation represents a single donation to a charity, optionally earmarked
// for one of its projects. Donations are financial records and are never
// deleted.
type Donation struct {
	ID            uuid.UUID  `json:"id"`
	DonorID       *uuid.UUID `json:"donor_id,omitempty"` // nil for anonymous donations
	CharityID     uuid.UUID  `json:"charity_id"`
	ProjectID     *uuid.UUID `json:"project_id,omitempty"`
	Amount        int64      `json:"amount"` // Stored in cents/minor units
	Currency      string     `json:"currency"`
	Status        Status     `json:"status"`
	PaymentHandle string     `json:"payment_handle,omitempty"` // opaque token from the payment gateway
	ExternalRef   string     `json:"external_ref,omitempty"`   // gateway transaction id, unique once set
	IsAnonymous   bool       `json:"is_anonymous"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// New creates a pending donation. donorID must be nil when anonymous is true.
func New(donorID *uuid.UUID, charityID uuid.UUID, projectID *uuid.UUID, amount int64, currency string, anonymous bool) (*Donation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}
	if anonymous {
		donorID = nil
	}

	now := time.Now()
	return &Donation{
		ID:          uuid.New(),
		DonorID:     donorID,
		CharityID:   charityID,
		ProjectID:   projectID,
		Amount:      amount,
		Currency:    currency,
		Status:      StatusPending,
		IsAnonymous: anonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Complete transitions the donation from pending to completed, recording the
// gateway transaction reference and settlement time. Returns ErrNotPending
// if the donation already reached a terminal state.
func (d *Donation) Complete(externalRef string, settledAt time.Time) error {
	if d.Status != StatusPending {
		return ErrNotPending
	}

	d.Status = StatusCompleted
	d.ExternalRef = externalRef
	d.SettledAt = &settledAt
	d.UpdatedAt = settledAt
	return nil
}

// Fail transitions the donation from pending to failed. Totals are never
// touched for failed donations.
func (d *Donation) Fail() error {
	if d.Status != StatusPending {
		return ErrNotPending
	}

	d.Status = StatusFailed
	d.UpdatedAt = time.Now()
	return nil
}
