package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/givebridge-donation-platform/internal/api/middleware"
	"github.com/givebridge-donation-platform/internal/api/service"
	"github.com/givebridge-donation-platform/internal/domain/user"
)

// UserHandler handles HTTP requests for the caller's own account
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetMe retrieves the authenticated caller's profile
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	u, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		var userNotFound user.ErrUserNotFound
		if errors.As(err, &userNotFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to get user profile", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// UpdateMe updates the authenticated caller's profile fields
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.FullName, req.Address, req.City, req.Country)
	if err != nil {
		var userNotFound user.ErrUserNotFound
		if errors.As(err, &userNotFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to update user profile", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}
