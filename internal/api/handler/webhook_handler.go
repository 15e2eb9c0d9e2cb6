package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/givebridge-donation-platform/internal/api/middleware"
	"github.com/givebridge-donation-platform/internal/api/service"
)

// SignatureHeader carries the HMAC signature of the raw webhook body
const SignatureHeader = "X-Webhook-Signature"

// WebhookHandler handles payment gateway webhook deliveries
type WebhookHandler struct {
	settlementService service.SettlementService
	logger            *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *slog.Logger, settlementService service.SettlementService) *WebhookHandler {
	return &WebhookHandler{
		settlementService: settlementService,
		logger:            logger,
	}
}

// Receive applies one gateway webhook delivery. Duplicate and unrecognized
// deliveries are acknowledged with 200 so the provider stops retrying; only
// transient failures return 500.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Failed to read webhook body", "error", err)
		RespondBadRequest(c, "Unreadable request body")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	correlationID := middleware.GetCorrelationID(c)

	err = h.settlementService.HandleWebhook(c.Request.Context(), body, signature, correlationID)
	switch {
	case err == nil:
		RespondOK(c, gin.H{"received": true})

	case errors.Is(err, service.ErrInvalidSignature):
		RespondBadRequest(c, "Invalid webhook signature")

	default:
		RespondInternalError(c)
	}
}
