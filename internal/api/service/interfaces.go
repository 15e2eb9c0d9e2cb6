package service

import (
	"context"
	"errors"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/audit"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Common service errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignature   = errors.New("webhook signature verification failed")
)

// TxRunner runs a function inside a database transaction.
// Satisfied by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// AuthService defines the interface for account registration and login
type AuthService interface {
	// Register creates an account and returns it with a signed access token.
	// Returns ErrDuplicateEmail if the email is already taken. Charity
	// registrations create the pending charity profile in the same transaction.
	Register(ctx context.Context, params RegisterParams) (*user.User, string, error)

	// Login verifies credentials and returns the account with a signed
	// access token. Returns ErrInvalidCredentials on any mismatch and
	// ErrCharityNotApproved for charity accounts pending moderation.
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

// UserService defines the interface for profile operations
type UserService interface {
	// GetProfile retrieves an account by its ID
	GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error)

	// UpdateProfile updates the mutable profile fields of an account
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, address, city, country string) (*user.User, error)
}

// CharityService defines the interface for charity and project operations
type CharityService interface {
	// CreateProfile registers a charity profile for the owning account.
	// The profile starts in pending state until an admin approves it.
	CreateProfile(ctx context.Context, ownerID uuid.UUID, c *charity.Charity) (*charity.Charity, error)

	// GetPublic retrieves an approved charity for public viewing
	GetPublic(ctx context.Context, id uuid.UUID) (*charity.Charity, error)

	// ListPublic retrieves approved charities matching the filter, with total count
	ListPublic(ctx context.Context, filter charity.ListFilter) ([]*charity.Charity, int64, error)

	// GetOwn retrieves the caller's own charity profile regardless of status
	GetOwn(ctx context.Context, ownerID uuid.UUID) (*charity.Charity, error)

	// UpdateProfile updates the caller's charity profile
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, c *charity.Charity) (*charity.Charity, error)

	// SetGoal sets the caller's overall fundraising goal
	SetGoal(ctx context.Context, ownerID uuid.UUID, amount int64) error

	// CreateProject publishes a fundraising project under the caller's charity
	CreateProject(ctx context.Context, ownerID uuid.UUID, p *project.Project) (*project.Project, error)

	// ListProjects retrieves all projects of a charity
	ListProjects(ctx context.Context, charityID uuid.UUID) ([]*project.Project, error)

	// GetProject retrieves a single project belonging to the charity
	GetProject(ctx context.Context, charityID, projectID uuid.UUID) (*project.Project, error)
}

// DonationService defines the interface for donation initiation and history
type DonationService interface {
	// Initiate creates a pending donation and registers a payment intent with
	// the gateway. The donation row and its payment handle are committed
	// together; a gateway failure rolls everything back.
	Initiate(ctx context.Context, donorID *uuid.UUID, charityID uuid.UUID, projectID *uuid.UUID, amount int64, currency string, anonymous bool) (*donation.Donation, *gateway.Intent, error)

	// History retrieves a donor's completed donations, newest first
	History(ctx context.Context, donorID uuid.UUID, page, perPage int) ([]*donation.HistoryEntry, int64, error)

	// GetReceipt retrieves a completed donation owned by the donor.
	// Returns ErrDonationNotFound for other donors' or unsettled donations.
	GetReceipt(ctx context.Context, id, donorID uuid.UUID) (*donation.Donation, error)
}

// SettlementService defines the interface for webhook-driven settlement
type SettlementService interface {
	// HandleWebhook verifies, parses and applies a gateway webhook delivery.
	// Returns ErrInvalidSignature when the signature does not match and nil
	// for handled, duplicate, unrecognized and unparseable deliveries so the
	// caller acknowledges them. Only transient faults propagate as errors.
	HandleWebhook(ctx context.Context, body []byte, signature, correlationID string) error
}

// AdminService defines the interface for platform administration
type AdminService interface {
	// ListUsers retrieves accounts, optionally filtered by role, with total count
	ListUsers(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error)

	// DeleteUser removes an account. Donation rows survive through the
	// ON DELETE SET NULL constraint on donor_id.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// ModerateCharity approves or rejects a pending charity and queues a
	// status notification for its owner in the same transaction.
	ModerateCharity(ctx context.Context, charityID uuid.UUID, status charity.Status, correlationID string) (*charity.Charity, error)

	// ListGatewayEvents browses the webhook delivery audit log
	ListGatewayEvents(ctx context.Context, start, end time.Time, page, perPage int) ([]*audit.GatewayEvent, error)
}
