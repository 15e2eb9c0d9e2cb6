package service

import (
	"context"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/google/uuid"
)

// CharityServiceImpl implements the CharityService interface
type CharityServiceImpl struct {
	charityRepo charity.Repository
	projectRepo project.Repository
	logger      *slog.Logger
}

// NewCharityService creates a new charity service
func NewCharityService(logger *slog.Logger, charityRepo charity.Repository, projectRepo project.Repository) CharityService {
	return &CharityServiceImpl{
		charityRepo: charityRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateProfile registers a charity profile in pending state for the owner
func (s *CharityServiceImpl) CreateProfile(ctx context.Context, ownerID uuid.UUID, c *charity.Charity) (*charity.Charity, error) {
	created, err := charity.New(ownerID, c.Name, c.RegistrationNumber, c.Mission, c.Description, c.Website, c.ContactEmail)
	if err != nil {
		return nil, err
	}

	if err := s.charityRepo.Create(ctx, created); err != nil {
		return nil, err
	}

	s.logger.Info("Charity profile created", "charity_id", created.ID, "name", created.Name)
	return created, nil
}

// GetPublic retrieves an approved charity for public viewing
func (s *CharityServiceImpl) GetPublic(ctx context.Context, id uuid.UUID) (*charity.Charity, error) {
	return s.charityRepo.GetApproved(ctx, id)
}

// ListPublic retrieves approved charities matching the filter, with total count
func (s *CharityServiceImpl) ListPublic(ctx context.Context, filter charity.ListFilter) ([]*charity.Charity, int64, error) {
	charities, err := s.charityRepo.ListApproved(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.charityRepo.CountApproved(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return charities, total, nil
}

// GetOwn retrieves the caller's own charity profile regardless of status
func (s *CharityServiceImpl) GetOwn(ctx context.Context, ownerID uuid.UUID) (*charity.Charity, error) {
	return s.charityRepo.GetByID(ctx, ownerID)
}

// UpdateProfile updates the caller's charity profile
func (s *CharityServiceImpl) UpdateProfile(ctx context.Context, ownerID uuid.UUID, c *charity.Charity) (*charity.Charity, error) {
	existing, err := s.charityRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if c.Name != "" {
		existing.Name = c.Name
	}
	if c.Mission != "" {
		existing.Mission = c.Mission
	}
	if c.Description != "" {
		existing.Description = c.Description
	}
	if c.Website != "" {
		existing.Website = c.Website
	}
	if c.ContactEmail != "" {
		existing.ContactEmail = c.ContactEmail
	}
	if c.LogoURL != "" {
		existing.LogoURL = c.LogoURL
	}

	if err := s.charityRepo.UpdateProfile(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// SetGoal sets the caller's overall fundraising goal
func (s *CharityServiceImpl) SetGoal(ctx context.Context, ownerID uuid.UUID, amount int64) error {
	c, err := s.charityRepo.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := c.SetGoal(amount); err != nil {
		return err
	}

	return s.charityRepo.SetGoal(ctx, c.ID, amount)
}

// CreateProject publishes a fundraising project under the caller's charity
func (s *CharityServiceImpl) CreateProject(ctx context.Context, ownerID uuid.UUID, p *project.Project) (*project.Project, error) {
	// Only an existing charity account can publish projects
	if _, err := s.charityRepo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	created, err := project.New(ownerID, p.Title, p.Description, p.GoalAmount, p.StartDate, p.EndDate, p.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, created); err != nil {
		return nil, err
	}

	s.logger.Info("Project created", "project_id", created.ID, "charity_id", ownerID)
	return created, nil
}

// ListProjects retrieves all projects of a charity
func (s *CharityServiceImpl) ListProjects(ctx context.Context, charityID uuid.UUID) ([]*project.Project, error) {
	return s.projectRepo.ListByCharity(ctx, charityID)
}

// GetProject retrieves a single project belonging to the charity
func (s *CharityServiceImpl) GetProject(ctx context.Context, charityID, projectID uuid.UUID) (*project.Project, error) {
	return s.projectRepo.GetForCharity(ctx, projectID, charityID)
}
