package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CharityRepository implements the charity.Repository interface for PostgreSQL
type CharityRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCharityRepository creates a new PostgreSQL charity repository
func NewCharityRepository(logger *slog.Logger, db *persistence.PostgresDB) charity.Repository {
	return &CharityRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *CharityRepository) WithTx(tx pgx.Tx) charity.Repository {
	return &CharityRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const charityColumns = `id, name, registration_number, mission, description, website, contact_email, logo_url, status, current_goal, raised_amount, created_at, updated_at`

func scanCharity(row pgx.Row) (*charity.Charity, error) {
	var c charity.Charity
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.RegistrationNumber,
		&c.Mission,
		&c.Description,
		&c.Website,
		&c.ContactEmail,
		&c.LogoURL,
		&c.Status,
		&c.CurrentGoal,
		&c.RaisedAmount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create stores a new charity profile. Name uniqueness is enforced by a
// database constraint and surfaces as ErrDuplicateCharityName.
func (r *CharityRepository) Create(ctx context.Context, c *charity.Charity) error {
	query := `
		INSERT INTO charities (id, name, registration_number, mission, description, website, contact_email, logo_url, status, current_goal, raised_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID,
		c.Name,
		c.RegistrationNumber,
		c.Mission,
		c.Description,
		c.Website,
		c.ContactEmail,
		c.LogoURL,
		c.Status,
		c.CurrentGoal,
		c.RaisedAmount,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return charity.ErrDuplicateCharityName{Name: c.Name}
		}
		r.logger.Error("Failed to create charity", "error", err)
		return fmt.Errorf("failed to create charity: %w", err)
	}

	return nil
}

// GetByID retrieves a charity regardless of moderation status
func (r *CharityRepository) GetByID(ctx context.Context, id uuid.UUID) (*charity.Charity, error) {
	query := `
		SELECT ` + charityColumns + `
		FROM charities
		WHERE id = $1
	`

	c, err := scanCharity(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, charity.ErrCharityNotFound{CharityID: id}
		}
		r.logger.Error("Failed to get charity", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get charity: %w", err)
	}

	return c, nil
}

// GetApproved retrieves a charity only if it has been approved
func (r *CharityRepository) GetApproved(ctx context.Context, id uuid.UUID) (*charity.Charity, error) {
	query := `
		SELECT ` + charityColumns + `
		FROM charities
		WHERE id = $1 AND status = $2
	`

	c, err := scanCharity(r.querier.QueryRow(ctx, query, id, charity.StatusApproved))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, charity.ErrCharityNotFound{CharityID: id}
		}
		r.logger.Error("Failed to get approved charity", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get charity: %w", err)
	}

	return c, nil
}

// ListApproved returns approved charities matching the filter, newest first
func (r *CharityRepository) ListApproved(ctx context.Context, filter charity.ListFilter) ([]*charity.Charity, error) {
	query := `
		SELECT ` + charityColumns + `
		FROM charities
		WHERE status = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR mission ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, charity.StatusApproved, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Failed to list charities", "error", err)
		return nil, fmt.Errorf("failed to list charities: %w", err)
	}
	defer rows.Close()

	var charities []*charity.Charity
	for rows.Next() {
		c, err := scanCharity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charity row: %w", err)
		}
		charities = append(charities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read charity rows: %w", err)
	}

	return charities, nil
}

// CountApproved returns the number of approved charities matching the filter
func (r *CharityRepository) CountApproved(ctx context.Context, filter charity.ListFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM charities
		WHERE status = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR mission ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, charity.StatusApproved, filter.Search).Scan(&count); err != nil {
		r.logger.Error("Failed to count charities", "error", err)
		return 0, fmt.Errorf("failed to count charities: %w", err)
	}

	return count, nil
}

// UpdateProfile updates the charity's editable profile fields
func (r *CharityRepository) UpdateProfile(ctx context.Context, c *charity.Charity) error {
	query := `
		UPDATE charities
		SET name = $1, mission = $2, description = $3, website = $4, contact_email = $5, logo_url = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.querier.Exec(ctx, query,
		c.Name,
		c.Mission,
		c.Description,
		c.Website,
		c.ContactEmail,
		c.LogoURL,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return charity.ErrDuplicateCharityName{Name: c.Name}
		}
		r.logger.Error("Failed to update charity", "id", c.ID.String(), "error", err)
		return fmt.Errorf("failed to update charity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return charity.ErrCharityNotFound{CharityID: c.ID}
	}

	return nil
}

// SetGoal updates the charity's overall fundraising goal
func (r *CharityRepository) SetGoal(ctx context.Context, id uuid.UUID, goal int64) error {
	query := `
		UPDATE charities
		SET current_goal = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, goal, id)
	if err != nil {
		r.logger.Error("Failed to set charity goal", "id", id.String(), "error", err)
		return fmt.Errorf("failed to set charity goal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return charity.ErrCharityNotFound{CharityID: id}
	}

	return nil
}

// UpdateStatus moves the charity through the moderation workflow
func (r *CharityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status charity.Status) error {
	query := `
		UPDATE charities
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update charity status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update charity status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return charity.ErrCharityNotFound{CharityID: id}
	}

	return nil
}

// AddToRaised atomically increments the charity's cumulative raised amount
func (r *CharityRepository) AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error {
	query := `
		UPDATE charities
		SET raised_amount = raised_amount + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, amount, id)
	if err != nil {
		r.logger.Error("Failed to add to charity raised amount", "id", id.String(), "error", err)
		return fmt.Errorf("failed to add to charity raised amount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return charity.ErrCharityNotFound{CharityID: id}
	}

	return nil
}
