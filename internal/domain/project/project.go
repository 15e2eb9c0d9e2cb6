package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyTitle  = errors.New("project title cannot be empty")
	ErrInvalidGoal = errors.New("goal amount must be positive")
)

// Project represents a fundraising project published by a charity
type Project struct {
	ID           uuid.UUID  `json:"id"`
	CharityID    uuid.UUID  `json:"charity_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	GoalAmount   int64      `json:"goal_amount"`   // Stored in cents/minor units
	RaisedAmount int64      `json:"raised_amount"` // Sum of completed donations naming this project
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// New creates a project for the given charity
func New(charityID uuid.UUID, title, description string, goalAmount int64, startDate, endDate *time.Time, imageURL string) (*Project, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if goalAmount <= 0 {
		return nil, ErrInvalidGoal
	}

	now := time.Now()
	return &Project{
		ID:          uuid.New(),
		CharityID:   charityID,
		Title:       title,
		Description: description,
		GoalAmount:  goalAmount,
		StartDate:   startDate,
		EndDate:     endDate,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
