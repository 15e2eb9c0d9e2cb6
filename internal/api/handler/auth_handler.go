package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/givebridge-donation-platform/internal/api/service"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/user"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a donor or charity account and returns an access token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	role := user.Role(req.Role)
	if role == user.RoleCharity && (req.CharityName == "" || req.RegistrationNumber == "") {
		RespondBadRequest(c, "Charity registration requires charity_name and registration_number")
		return
	}

	u, token, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		Email:              req.Email,
		Password:           req.Password,
		FullName:           req.FullName,
		Role:               role,
		CharityName:        req.CharityName,
		RegistrationNumber: req.RegistrationNumber,
	})
	if err != nil {
		var duplicateEmailErr user.ErrDuplicateEmail
		if errors.As(err, &duplicateEmailErr) {
			h.logger.Warn("Attempt to register with duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "An account with this email already exists")
			return
		}
		var duplicateNameErr charity.ErrDuplicateCharityName
		if errors.As(err, &duplicateNameErr) {
			RespondConflict(c, "A charity with this name already exists")
			return
		}
		if errors.Is(err, user.ErrInvalidRole) {
			RespondBadRequest(c, "Role must be donor or charity")
			return
		}
		h.logger.Error("Failed to register user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, AuthResponse{
		Token: token,
		User:  mapUserToResponse(u),
	})
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondUnauthorized(c, "Invalid email or password")
			return
		}
		if errors.Is(err, service.ErrCharityNotApproved) {
			RespondForbidden(c, "Charity account is awaiting approval")
			return
		}
		h.logger.Error("Failed to log in user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AuthResponse{
		Token: token,
		User:  mapUserToResponse(u),
	})
}

// mapUserToResponse maps a user entity to a user response DTO
func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FullName:   u.FullName,
		Address:    u.Address,
		City:       u.City,
		Country:    u.Country,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}
