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
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/google/uuid"
)

// AdminHandler handles HTTP requests for platform administration
type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(logger *slog.Logger, adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// adminListParams represents filters for the admin user listing
type adminListParams struct {
	Role    string `form:"role" binding:"omitempty,oneof=donor charity admin"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=10" binding:"min=1,max=100"`
}

// ListUsers retrieves platform accounts, optionally filtered by role
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var params adminListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid list parameters")
		return
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), user.ListFilter{
		Role:   user.Role(params.Role),
		Limit:  params.PerPage,
		Offset: (params.Page - 1) * params.PerPage,
	})
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, mapUserToResponse(u))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	if callerID, ok := middleware.GetUserID(c); ok && callerID == id {
		RespondBadRequest(c, "Cannot delete your own account")
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		var notFound user.ErrUserNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to delete user", "user_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// ModerateCharity approves or rejects a pending charity
func (h *AdminHandler) ModerateCharity(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid charity ID")
		return
	}

	var req ModerateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	moderated, err := h.adminService.ModerateCharity(c.Request.Context(), id, charity.Status(req.Status), middleware.GetCorrelationID(c))
	if err != nil {
		var notFound charity.ErrCharityNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Charity not found")
			return
		}
		if errors.Is(err, charity.ErrInvalidStatusValue) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to moderate charity", "charity_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCharityToResponse(moderated))
}

// gatewayEventParams represents filters for browsing the webhook audit log
type gatewayEventParams struct {
	Start   string `form:"start"`
	End     string `form:"end"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=10" binding:"min=1,max=100"`
}

// ListGatewayEvents browses the webhook delivery audit log within a time range
func (h *AdminHandler) ListGatewayEvents(c *gin.Context) {
	var params gatewayEventParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid list parameters")
		return
	}

	start := time.Time{}
	if params.Start != "" {
		parsed, err := time.Parse(time.RFC3339, params.Start)
		if err != nil {
			RespondBadRequest(c, "Invalid start time")
			return
		}
		start = parsed
	}

	end := time.Now()
	if params.End != "" {
		parsed, err := time.Parse(time.RFC3339, params.End)
		if err != nil {
			RespondBadRequest(c, "Invalid end time")
			return
		}
		end = parsed
	}

	events, err := h.adminService.ListGatewayEvents(c.Request.Context(), start, end, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list gateway events", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, events)
}
