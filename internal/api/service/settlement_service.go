package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/audit"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/outbox"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/givebridge-donation-platform/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SettlementServiceImpl implements the SettlementService interface.
// It is the only writer of donation terminal states and running totals.
type SettlementServiceImpl struct {
	db           TxRunner
	donationRepo donation.Repository
	charityRepo  charity.Repository
	projectRepo  project.Repository
	outboxRepo   outbox.Repository
	auditRepo    audit.Repository
	gateway      gateway.PaymentGateway
	logger       *slog.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	logger *slog.Logger,
	db TxRunner,
	donationRepo donation.Repository,
	charityRepo charity.Repository,
	projectRepo project.Repository,
	outboxRepo outbox.Repository,
	auditRepo audit.Repository,
	paymentGateway gateway.PaymentGateway,
) SettlementService {
	return &SettlementServiceImpl{
		db:           db,
		donationRepo: donationRepo,
		charityRepo:  charityRepo,
		projectRepo:  projectRepo,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		gateway:      paymentGateway,
		logger:       logger,
	}
}

// HandleWebhook verifies, parses and applies a gateway webhook delivery.
// Redelivered events for donations already in a terminal state are
// acknowledged without touching any totals.
func (s *SettlementServiceImpl) HandleWebhook(ctx context.Context, body []byte, signature, correlationID string) error {
	if !s.gateway.VerifySignature(body, signature) {
		s.logger.Warn("Webhook signature rejected", "correlation_id", correlationID)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultRejectedSignature)).Inc()
		s.recordAudit(ctx, &audit.GatewayEvent{
			ID:            uuid.New(),
			Result:        audit.ResultRejectedSignature,
			CorrelationID: correlationID,
			ReceivedAt:    time.Now(),
		})
		return ErrInvalidSignature
	}

	// Anything the signature admits but the parser cannot place is treated as
	// unrecognized and acknowledged, a non-2xx here would only trigger
	// redeliveries of the same payload.
	event, err := s.gateway.ParseEvent(body)
	if err != nil {
		s.logger.Error("Webhook payload unparseable", "correlation_id", correlationID, "error", err)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultUnrecognized)).Inc()
		s.recordAudit(ctx, s.auditEvent(&gateway.Event{}, audit.ResultUnrecognized, err.Error(), correlationID))
		return nil
	}

	if event.Outcome == gateway.OutcomeUnrecognized {
		s.logger.Info("Ignoring unrecognized webhook event", "event_id", event.ID, "correlation_id", correlationID)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultUnrecognized)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultUnrecognized, "", correlationID))
		return nil
	}

	if event.DonationID == "" {
		s.logger.Warn("Webhook event carries no donation reference", "event_id", event.ID, "correlation_id", correlationID)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultUnrecognized)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultUnrecognized, gateway.ErrMissingDonationRef.Error(), correlationID))
		return nil
	}

	donationID, err := uuid.Parse(event.DonationID)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultUnrecognized)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultUnrecognized, "invalid donation reference", correlationID))
		return nil
	}

	start := time.Now()
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.settle(ctx, tx, donationID, event, correlationID)
	})
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())

	var notPending donation.ErrDonationNotPending
	var notFound donation.ErrDonationNotFound
	switch {
	case err == nil:
		result := audit.ResultSettled
		if event.Outcome == gateway.OutcomeFailed {
			result = audit.ResultFailed
		}
		metrics.WebhookEventsTotal.WithLabelValues(string(result)).Inc()
		metrics.SettlementsTotal.WithLabelValues(string(event.Outcome)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, result, "", correlationID))
		return nil

	case errors.As(err, &notPending):
		// Duplicate delivery for a donation already settled. Acknowledge so
		// the provider stops retrying.
		s.logger.Info("Duplicate webhook delivery ignored",
			"donation_id", donationID,
			"status", string(notPending.Status),
			"correlation_id", correlationID,
		)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultDuplicate)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultDuplicate, "duplicate delivery, donation already "+string(notPending.Status), correlationID))
		return nil

	case errors.As(err, &notFound):
		// Acknowledge events for donations this platform never issued so the
		// provider stops redelivering them.
		s.logger.Warn("Webhook references unknown donation",
			"donation_id", donationID,
			"event_id", event.ID,
			"correlation_id", correlationID,
		)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultUnrecognized)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultUnrecognized, "unknown donation", correlationID))
		return nil

	default:
		s.logger.Error("Settlement failed",
			"donation_id", donationID,
			"event_id", event.ID,
			"correlation_id", correlationID,
			"error", err,
		)
		metrics.WebhookEventsTotal.WithLabelValues(string(audit.ResultError)).Inc()
		s.recordAudit(ctx, s.auditEvent(event, audit.ResultError, err.Error(), correlationID))
		return err
	}
}

// settle applies one recognized event inside the settlement transaction
func (s *SettlementServiceImpl) settle(ctx context.Context, tx pgx.Tx, donationID uuid.UUID, event *gateway.Event, correlationID string) error {
	donationRepo := s.donationRepo.WithTx(tx)

	d, err := donationRepo.LockPending(ctx, donationID)
	if err != nil {
		return err
	}

	if event.Outcome == gateway.OutcomeFailed {
		return donationRepo.MarkFailed(ctx, donationID)
	}

	settledAt := time.Now()
	if err := donationRepo.MarkCompleted(ctx, donationID, event.TransactionID, settledAt); err != nil {
		return err
	}

	// Running totals use the stored donation amount, not the event amount.
	// The audit log keeps the gateway's figure for reconciliation.
	if err := s.charityRepo.WithTx(tx).AddToRaised(ctx, d.CharityID, d.Amount); err != nil {
		return err
	}
	if d.ProjectID != nil {
		if err := s.projectRepo.WithTx(tx).AddToRaised(ctx, *d.ProjectID, d.Amount); err != nil {
			return err
		}
	}

	if d.DonorID != nil {
		notification := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationDonationReceipt,
			UserID:        *d.DonorID,
			CharityID:     d.CharityID,
			DonationID:    &d.ID,
			Amount:        d.Amount,
			Currency:      d.Currency,
			TransactionID: event.TransactionID,
			CorrelationID: correlationID,
			Timestamp:     settledAt,
		}

		message, err := outbox.NewMessage(notification)
		if err != nil {
			return err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, message); err != nil {
			return err
		}
	}

	return nil
}

func (s *SettlementServiceImpl) auditEvent(event *gateway.Event, result audit.Result, detail, correlationID string) *audit.GatewayEvent {
	record := audit.NewGatewayEvent(event.ID, result)
	record.DonationID = event.DonationID
	record.TransactionID = event.TransactionID
	record.Amount = event.Amount
	record.Currency = event.Currency
	record.Detail = detail
	record.CorrelationID = correlationID
	return record
}

// recordAudit writes the delivery to the audit log. Failures are logged and
// swallowed so audit storage can never block settlement.
func (s *SettlementServiceImpl) recordAudit(ctx context.Context, record *audit.GatewayEvent) {
	if err := s.auditRepo.Record(ctx, record); err != nil {
		s.logger.Error("Failed to record gateway event audit entry",
			"event_id", record.EventID,
			"result", string(record.Result),
			"error", err,
		)
	}
}
