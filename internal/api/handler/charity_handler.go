package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/givebridge-donation-platform/internal/api/middleware"
	"github.com/givebridge-donation-platform/internal/api/service"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/google/uuid"
)

// CharityHandler handles HTTP requests for charity and project operations
type CharityHandler struct {
	charityService service.CharityService
	logger         *slog.Logger
}

// NewCharityHandler creates a new charity handler
func NewCharityHandler(logger *slog.Logger, charityService service.CharityService) *CharityHandler {
	return &CharityHandler{
		charityService: charityService,
		logger:         logger,
	}
}

// Create registers a charity profile for the authenticated charity account
func (h *CharityHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.charityService.CreateProfile(c.Request.Context(), ownerID, &charity.Charity{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Mission:            req.Mission,
		Description:        req.Description,
		Website:            req.Website,
		ContactEmail:       req.ContactEmail,
	})
	if err != nil {
		var duplicateNameErr charity.ErrDuplicateCharityName
		if errors.As(err, &duplicateNameErr) {
			h.logger.Warn("Attempt to register duplicate charity name", "name", duplicateNameErr.Name)
			RespondConflict(c, "A charity with this name already exists")
			return
		}
		if errors.Is(err, charity.ErrEmptyName) || errors.Is(err, charity.ErrEmptyRegistration) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create charity profile", "owner_id", ownerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapCharityToResponse(created))
}

// List retrieves approved charities with optional text search
func (h *CharityHandler) List(c *gin.Context) {
	var params CharityListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid list parameters", "error", err)
		RespondBadRequest(c, "Invalid list parameters")
		return
	}

	charities, total, err := h.charityService.ListPublic(c.Request.Context(), charity.ListFilter{
		Search: params.Search,
		Limit:  params.PerPage,
		Offset: (params.Page - 1) * params.PerPage,
	})
	if err != nil {
		h.logger.Error("Failed to list charities", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]CharityResponse, 0, len(charities))
	for _, ch := range charities {
		responses = append(responses, mapCharityToResponse(ch))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// GetByID retrieves an approved charity by its ID, returning 404 if not found
func (h *CharityHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid charity ID")
		return
	}

	ch, err := h.charityService.GetPublic(c.Request.Context(), id)
	if err != nil {
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity not found")
			return
		}
		h.logger.Error("Failed to get charity", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCharityToResponse(ch))
}

// GetOwn retrieves the caller's own charity profile regardless of status
func (h *CharityHandler) GetOwn(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	ch, err := h.charityService.GetOwn(c.Request.Context(), ownerID)
	if err != nil {
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity profile not found")
			return
		}
		h.logger.Error("Failed to get own charity", "owner_id", ownerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCharityToResponse(ch))
}

// Update modifies the caller's charity profile
func (h *CharityHandler) Update(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req UpdateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.charityService.UpdateProfile(c.Request.Context(), ownerID, &charity.Charity{
		Name:         req.Name,
		Mission:      req.Mission,
		Description:  req.Description,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		var duplicateNameErr charity.ErrDuplicateCharityName
		if errors.As(err, &duplicateNameErr) {
			RespondConflict(c, "A charity with this name already exists")
			return
		}
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity profile not found")
			return
		}
		h.logger.Error("Failed to update charity profile", "owner_id", ownerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCharityToResponse(updated))
}

// SetGoal sets the caller's overall fundraising goal
func (h *CharityHandler) SetGoal(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.charityService.SetGoal(c.Request.Context(), ownerID, req.Amount); err != nil {
		if errors.Is(err, charity.ErrInvalidGoal) {
			RespondBadRequest(c, err.Error())
			return
		}
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity profile not found")
			return
		}
		h.logger.Error("Failed to set goal", "owner_id", ownerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"goal": req.Amount})
}

// CreateProject publishes a fundraising project under the caller's charity
func (h *CharityHandler) CreateProject(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		RespondBadRequest(c, "Invalid start date")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		RespondBadRequest(c, "Invalid end date")
		return
	}

	created, err := h.charityService.CreateProject(c.Request.Context(), ownerID, &project.Project{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		StartDate:   startDate,
		EndDate:     endDate,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, project.ErrEmptyTitle) || errors.Is(err, project.ErrInvalidGoal) {
			RespondBadRequest(c, err.Error())
			return
		}
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity profile not found")
			return
		}
		h.logger.Error("Failed to create project", "owner_id", ownerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapProjectToResponse(created))
}

// ListProjects retrieves all projects of a charity
func (h *CharityHandler) ListProjects(c *gin.Context) {
	idParam := c.Param("id")
	charityID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid charity ID")
		return
	}

	projects, err := h.charityService.ListProjects(c.Request.Context(), charityID)
	if err != nil {
		h.logger.Error("Failed to list projects", "charity_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, mapProjectToResponse(p))
	}

	RespondOK(c, responses)
}

// GetProject retrieves a single project belonging to a charity
func (h *CharityHandler) GetProject(c *gin.Context) {
	charityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid charity ID")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		RespondBadRequest(c, "Invalid project ID")
		return
	}

	p, err := h.charityService.GetProject(c.Request.Context(), charityID, projectID)
	if err != nil {
		var notFound project.ErrProjectNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Project not found")
			return
		}
		h.logger.Error("Failed to get project", "project_id", projectID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapProjectToResponse(p))
}

// parseDate accepts RFC3339 timestamps or bare dates, returning nil for empty input
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// mapCharityToResponse maps a charity entity to a charity response DTO
func mapCharityToResponse(ch *charity.Charity) CharityResponse {
	return CharityResponse{
		ID:                 ch.ID.String(),
		Name:               ch.Name,
		RegistrationNumber: ch.RegistrationNumber,
		Mission:            ch.Mission,
		Description:        ch.Description,
		Website:            ch.Website,
		ContactEmail:       ch.ContactEmail,
		LogoURL:            ch.LogoURL,
		Status:             string(ch.Status),
		CurrentGoal:        ch.CurrentGoal,
		RaisedAmount:       ch.RaisedAmount,
		CreatedAt:          ch.CreatedAt.Format(time.RFC3339),
	}
}

// mapProjectToResponse maps a project entity to a project response DTO
func mapProjectToResponse(p *project.Project) ProjectResponse {
	response := ProjectResponse{
		ID:           p.ID.String(),
		CharityID:    p.CharityID.String(),
		Title:        p.Title,
		Description:  p.Description,
		GoalAmount:   p.GoalAmount,
		RaisedAmount: p.RaisedAmount,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}

	if p.StartDate != nil {
		response.StartDate = p.StartDate.Format(time.RFC3339)
	}
	if p.EndDate != nil {
		response.EndDate = p.EndDate.Format(time.RFC3339)
	}

	return response
}
