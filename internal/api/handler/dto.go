package handler

// RegisterRequest represents a request to create a platform account.
// CharityName and RegistrationNumber are required when role is charity.
type RegisterRequest struct {
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=8"`
	FullName           string `json:"full_name" binding:"required"`
	Role               string `json:"role" binding:"required,oneof=donor charity"`
	CharityName        string `json:"charity_name,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued access token and account details
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

// UpdateProfileRequest represents a request to update the caller's profile
type UpdateProfileRequest struct {
	FullName string `json:"full_name,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
}

// CreateCharityRequest represents a request to register a charity profile
type CreateCharityRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Mission            string `json:"mission,omitempty"`
	Description        string `json:"description,omitempty"`
	Website            string `json:"website,omitempty"`
	ContactEmail       string `json:"contact_email,omitempty"`
}

// UpdateCharityRequest represents a request to update a charity profile
type UpdateCharityRequest struct {
	Name         string `json:"name" binding:"required"`
	Mission      string `json:"mission,omitempty"`
	Description  string `json:"description,omitempty"`
	Website      string `json:"website,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// SetGoalRequest represents a request to set a charity's fundraising goal
type SetGoalRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CharityResponse represents a charity in API responses
type CharityResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Mission            string `json:"mission,omitempty"`
	Description        string `json:"description,omitempty"`
	Website            string `json:"website,omitempty"`
	ContactEmail       string `json:"contact_email,omitempty"`
	LogoURL            string `json:"logo_url,omitempty"`
	Status             string `json:"status"`
	CurrentGoal        int64  `json:"current_goal"`
	RaisedAmount       int64  `json:"raised_amount"`
	CreatedAt          string `json:"created_at"`
}

// CreateProjectRequest represents a request to publish a fundraising project
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	GoalAmount  int64  `json:"goal_amount" binding:"required,gt=0"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ProjectResponse represents a fundraising project in API responses
type ProjectResponse struct {
	ID           string `json:"id"`
	CharityID    string `json:"charity_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	GoalAmount   int64  `json:"goal_amount"`
	RaisedAmount int64  `json:"raised_amount"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// InitiateDonationRequest represents a request to start a donation
type InitiateDonationRequest struct {
	CharityID string `json:"charity_id" binding:"required,uuid"`
	ProjectID string `json:"project_id,omitempty" binding:"omitempty,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Currency  string `json:"currency" binding:"required,len=3"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

// DonationResponse represents a donation in API responses
type DonationResponse struct {
	ID           string `json:"id"`
	CharityID    string `json:"charity_id"`
	CharityName  string `json:"charity_name,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	ProjectTitle string `json:"project_title,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	ExternalRef  string `json:"external_ref,omitempty"`
	IsAnonymous  bool   `json:"is_anonymous"`
	SettledAt    string `json:"settled_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ModerateCharityRequest represents an admin approval decision
type ModerateCharityRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// CharityListParams represents filters for the public charity listing
type CharityListParams struct {
	Search  string `form:"search"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=10" binding:"min=1,max=100"`
}
