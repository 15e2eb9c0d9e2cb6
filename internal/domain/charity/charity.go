package charity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName          = errors.New("charity name cannot be empty")
	ErrEmptyRegistration  = errors.New("registration number cannot be empty")
	ErrInvalidGoal        = errors.New("goal amount must be positive")
	ErrInvalidStatusValue = errors.New("status must be approved or rejected")
)

// Status defines charity moderation states. Only approved charities may
// receive donations.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Charity represents a registered charity organization. Its id is the id of
// the owning user account.
type Charity struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	Mission            string    `json:"mission,omitempty"`
	Description        string    `json:"description,omitempty"`
	Website            string    `json:"website,omitempty"`
	ContactEmail       string    `json:"contact_email,omitempty"`
	LogoURL            string    `json:"logo_url,omitempty"`
	Status             Status    `json:"status"`
	CurrentGoal        int64     `json:"current_goal"`  // Stored in cents/minor units
	RaisedAmount       int64     `json:"raised_amount"` // Sum of completed donations, settlement-maintained
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// New creates a charity profile in pending state, awaiting admin approval
func New(ownerID uuid.UUID, name, registrationNumber, mission, description, website, contactEmail string) (*Charity, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if registrationNumber == "" {
		return nil, ErrEmptyRegistration
	}

	now := time.Now()
	return &Charity{
		ID:                 ownerID,
		Name:               name,
		RegistrationNumber: registrationNumber,
		Mission:            mission,
		Description:        description,
		Website:            website,
		ContactEmail:       contactEmail,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// SetGoal updates the charity's overall fundraising goal. The goal is
// independent of the raised amount.
func (c *Charity) SetGoal(amount int64) error {
	if amount <= 0 {
		return ErrInvalidGoal
	}
	c.CurrentGoal = amount
	c.UpdatedAt = time.Now()
	return nil
}
