package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectRepository implements the project.Repository interface for PostgreSQL
type ProjectRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(logger *slog.Logger, db *persistence.PostgresDB) project.Repository {
	return &ProjectRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *ProjectRepository) WithTx(tx pgx.Tx) project.Repository {
	return &ProjectRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const projectColumns = `id, charity_id, title, description, goal_amount, raised_amount, start_date, end_date, image_url, created_at, updated_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.CharityID,
		&p.Title,
		&p.Description,
		&p.GoalAmount,
		&p.RaisedAmount,
		&p.StartDate,
		&p.EndDate,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create stores a new fundraising project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, charity_id, title, description, goal_amount, raised_amount, start_date, end_date, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.CharityID,
		p.Title,
		p.Description,
		p.GoalAmount,
		p.RaisedAmount,
		p.StartDate,
		p.EndDate,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create project", "error", err)
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1
	`

	p, err := scanProject(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound{ProjectID: id}
		}
		r.logger.Error("Failed to get project", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// GetForCharity retrieves a project only if it belongs to the given charity
func (r *ProjectRepository) GetForCharity(ctx context.Context, id, charityID uuid.UUID) (*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1 AND charity_id = $2
	`

	p, err := scanProject(r.querier.QueryRow(ctx, query, id, charityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound{ProjectID: id}
		}
		r.logger.Error("Failed to get project for charity", "id", id.String(), "charityID", charityID.String(), "error", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// ListByCharity returns all projects published by the charity, newest first
func (r *ProjectRepository) ListByCharity(ctx context.Context, charityID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE charity_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, charityID)
	if err != nil {
		r.logger.Error("Failed to list projects", "charityID", charityID.String(), "error", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	return projects, nil
}

// AddToRaised atomically increments the project's cumulative raised amount
func (r *ProjectRepository) AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error {
	query := `
		UPDATE projects
		SET raised_amount = raised_amount + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, amount, id)
	if err != nil {
		r.logger.Error("Failed to add to project raised amount", "id", id.String(), "error", err)
		return fmt.Errorf("failed to add to project raised amount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return project.ErrProjectNotFound{ProjectID: id}
	}

	return nil
}
