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
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/google/uuid"
)

// DonationHandler handles HTTP requests for donation initiation and history
type DonationHandler struct {
	donationService service.DonationService
	logger          *slog.Logger
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(logger *slog.Logger, donationService service.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		logger:          logger,
	}
}

// Initiate starts a donation: a pending record plus a payment intent the
// client completes against the gateway
func (h *DonationHandler) Initiate(c *gin.Context) {
	donorID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req InitiateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	charityID, err := uuid.Parse(req.CharityID)
	if err != nil {
		RespondBadRequest(c, "Invalid charity ID")
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			RespondBadRequest(c, "Invalid project ID")
			return
		}
		projectID = &id
	}

	d, intent, err := h.donationService.Initiate(c.Request.Context(), &donorID, charityID, projectID, req.Amount, req.Currency, req.Anonymous)
	if err != nil {
		var charityNotFound charity.ErrCharityNotFound
		if errors.As(err, &charityNotFound) {
			RespondNotFound(c, "Charity not found")
			return
		}
		var projectNotFound project.ErrProjectNotFound
		if errors.As(err, &projectNotFound) {
			RespondNotFound(c, "Project not found under this charity")
			return
		}
		if errors.Is(err, donation.ErrInvalidAmount) || errors.Is(err, donation.ErrInvalidCurrencyFormat) {
			RespondBadRequest(c, err.Error())
			return
		}
		var gatewayErr *gateway.GatewayError
		if errors.As(err, &gatewayErr) {
			h.logger.Error("Payment gateway unavailable", "charity_id", req.CharityID, "error", err)
			RespondBadGateway(c, "Payment provider is unavailable, please retry")
			return
		}
		h.logger.Error("Failed to initiate donation", "charity_id", req.CharityID, "error", err)
		RespondInternalError(c)
		return
	}

	response := mapDonationToResponse(d)
	response.ClientSecret = intent.ClientSecret
	response.OrderID = intent.OrderID

	RespondCreated(c, response)
}

// History retrieves the caller's completed donations, newest first
func (h *DonationHandler) History(c *gin.Context) {
	donorID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.donationService.History(c.Request.Context(), donorID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to get donation history", "donor_id", donorID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]DonationResponse, 0, len(entries))
	for _, entry := range entries {
		response := mapDonationToResponse(&entry.Donation)
		response.CharityName = entry.CharityName
		if entry.ProjectTitle != nil {
			response.ProjectTitle = *entry.ProjectTitle
		}
		responses = append(responses, response)
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetReceipt retrieves a completed donation owned by the caller
func (h *DonationHandler) GetReceipt(c *gin.Context) {
	donorID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid donation ID")
		return
	}

	d, err := h.donationService.GetReceipt(c.Request.Context(), id, donorID)
	if err != nil {
		var notFound donation.ErrDonationNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Donation not found")
			return
		}
		h.logger.Error("Failed to get receipt", "donation_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapDonationToResponse(d))
}

// mapDonationToResponse maps a donation entity to a donation response DTO
func mapDonationToResponse(d *donation.Donation) DonationResponse {
	response := DonationResponse{
		ID:          d.ID.String(),
		CharityID:   d.CharityID.String(),
		Amount:      d.Amount,
		Currency:    d.Currency,
		Status:      string(d.Status),
		ExternalRef: d.ExternalRef,
		IsAnonymous: d.IsAnonymous,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}

	if d.ProjectID != nil {
		response.ProjectID = d.ProjectID.String()
	}
	if d.SettledAt != nil {
		response.SettledAt = d.SettledAt.Format(time.RFC3339)
	}

	return response
}
