// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the donation platform.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DonationRepository implements the donation.Repository interface for PostgreSQL
type DonationRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewDonationRepository creates a new PostgreSQL donation repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewDonationRepository(logger *slog.Logger, db *persistence.PostgresDB) donation.Repository {
	return &DonationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *DonationRepository) WithTx(tx pgx.Tx) donation.Repository {
	return &DonationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new donation in pending state
func (r *DonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	query := `
		INSERT INTO donations (id, donor_id, charity_id, project_id, amount, currency, status, payment_handle, external_ref, is_anonymous, settled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.querier.Exec(ctx, query,
		d.ID,
		d.DonorID,
		d.CharityID,
		d.ProjectID,
		d.Amount,
		d.Currency,
		d.Status,
		nullableString(d.PaymentHandle),
		nullableString(d.ExternalRef),
		d.IsAnonymous,
		d.SettledAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create donation", "error", err)
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

const donationColumns = `id, donor_id, charity_id, project_id, amount, currency, status, payment_handle, external_ref, is_anonymous, settled_at, created_at, updated_at`

func scanDonation(row pgx.Row) (*donation.Donation, error) {
	var d donation.Donation
	var paymentHandle, externalRef *string
	err := row.Scan(
		&d.ID,
		&d.DonorID,
		&d.CharityID,
		&d.ProjectID,
		&d.Amount,
		&d.Currency,
		&d.Status,
		&paymentHandle,
		&externalRef,
		&d.IsAnonymous,
		&d.SettledAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentHandle != nil {
		d.PaymentHandle = *paymentHandle
	}
	if externalRef != nil {
		d.ExternalRef = *externalRef
	}
	return &d, nil
}

// GetByID retrieves a donation by its ID
func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE id = $1
	`

	d, err := scanDonation(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, donation.ErrDonationNotFound{DonationID: id}
		}
		r.logger.Error("Failed to get donation", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	return d, nil
}

// SetPaymentHandle records the gateway handle returned for a freshly created donation
func (r *DonationRepository) SetPaymentHandle(ctx context.Context, id uuid.UUID, handle string) error {
	query := `
		UPDATE donations
		SET payment_handle = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, handle, id)
	if err != nil {
		r.logger.Error("Failed to set payment handle", "id", id.String(), "error", err)
		return fmt.Errorf("failed to set payment handle: %w", err)
	}

	if result.RowsAffected() == 0 {
		return donation.ErrDonationNotFound{DonationID: id}
	}

	return nil
}

// LockPending obtains a pessimistic lock on the donation and requires it to be
// in pending state. This must run within a transaction; duplicate settlement
// attempts serialize on the row lock and see the terminal status.
func (r *DonationRepository) LockPending(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE id = $1
		FOR UPDATE
	`

	d, err := scanDonation(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, donation.ErrDonationNotFound{DonationID: id}
		}
		r.logger.Error("Failed to lock donation", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock donation: %w", err)
	}

	if d.Status != donation.StatusPending {
		return nil, donation.ErrDonationNotPending{DonationID: id, Status: d.Status}
	}

	return d, nil
}

// MarkCompleted moves a pending donation to completed with its gateway
// transaction reference and settlement timestamp
func (r *DonationRepository) MarkCompleted(ctx context.Context, id uuid.UUID, externalRef string, settledAt time.Time) error {
	query := `
		UPDATE donations
		SET status = $1, external_ref = $2, settled_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.querier.Exec(ctx, query, donation.StatusCompleted, externalRef, settledAt, id, donation.StatusPending)
	if err != nil {
		r.logger.Error("Failed to mark donation completed", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark donation completed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return donation.ErrDonationNotPending{DonationID: id}
	}

	return nil
}

// MarkFailed moves a pending donation to failed
func (r *DonationRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE donations
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.querier.Exec(ctx, query, donation.StatusFailed, id, donation.StatusPending)
	if err != nil {
		r.logger.Error("Failed to mark donation failed", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark donation failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return donation.ErrDonationNotPending{DonationID: id}
	}

	return nil
}

// ListCompletedByDonor returns a donor's completed donations newest first,
// joined with charity and project names for display
func (r *DonationRepository) ListCompletedByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*donation.HistoryEntry, error) {
	query := `
		SELECT d.id, d.donor_id, d.charity_id, d.project_id, d.amount, d.currency, d.status, d.payment_handle, d.external_ref, d.is_anonymous, d.settled_at, d.created_at, d.updated_at,
		       c.name, p.title
		FROM donations d
		JOIN charities c ON c.id = d.charity_id
		LEFT JOIN projects p ON p.id = d.project_id
		WHERE d.donor_id = $1 AND d.status = $2
		ORDER BY d.settled_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, donorID, donation.StatusCompleted, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list donations", "donorID", donorID.String(), "error", err)
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	var entries []*donation.HistoryEntry
	for rows.Next() {
		var e donation.HistoryEntry
		var paymentHandle, externalRef *string
		err := rows.Scan(
			&e.ID,
			&e.DonorID,
			&e.CharityID,
			&e.ProjectID,
			&e.Amount,
			&e.Currency,
			&e.Status,
			&paymentHandle,
			&externalRef,
			&e.IsAnonymous,
			&e.SettledAt,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.CharityName,
			&e.ProjectTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		if paymentHandle != nil {
			e.PaymentHandle = *paymentHandle
		}
		if externalRef != nil {
			e.ExternalRef = *externalRef
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read donation rows: %w", err)
	}

	return entries, nil
}

// CountCompletedByDonor returns the total number of a donor's completed donations
func (r *DonationRepository) CountCompletedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM donations
		WHERE donor_id = $1 AND status = $2
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, donorID, donation.StatusCompleted).Scan(&count); err != nil {
		r.logger.Error("Failed to count donations", "donorID", donorID.String(), "error", err)
		return 0, fmt.Errorf("failed to count donations: %w", err)
	}

	return count, nil
}

// GetCompletedForDonor retrieves a completed donation owned by the donor,
// used for receipt access control
func (r *DonationRepository) GetCompletedForDonor(ctx context.Context, id, donorID uuid.UUID) (*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE id = $1 AND donor_id = $2 AND status = $3
	`

	d, err := scanDonation(r.querier.QueryRow(ctx, query, id, donorID, donation.StatusCompleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, donation.ErrDonationNotFound{DonationID: id}
		}
		r.logger.Error("Failed to get donation for donor", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	return d, nil
}

// nullableString maps empty strings to NULL so unset columns stay NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
