package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/outbox"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/platform/messaging/producers"
)

// NotificationPublisher publishes outbox messages to the notification topic
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, message *outbox.Message) error
}

// KafkaNotificationPublisher implements NotificationPublisher
type KafkaNotificationPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewKafkaNotificationPublisher creates a new publisher
func NewKafkaNotificationPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) NotificationPublisher {
	return &KafkaNotificationPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishNotification sends a message's notification to Kafka and marks the
// outbox row PROCESSED only after the broker acknowledged the write.
func (p *KafkaNotificationPublisher) PublishNotification(ctx context.Context, message *outbox.Message) error {
	notification, err := message.GetNotification()
	if err != nil {
		p.logger.Error("Failed to unmarshal notification from outbox payload",
			"outbox_id", message.ID, "notification_id", message.NotificationID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if notification.CorrelationID != "" {
		logger = p.logger.With("correlation_id", notification.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to Kafka", "outbox_id", message.ID, "notification_id", message.NotificationID)

	// Keyed by user so one recipient's notifications stay ordered
	if err := p.producer.Publish(ctx, notification.UserID.String(), notification); err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", notification.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "notification_id", message.NotificationID, "error", err,
		)
		return fmt.Errorf("publish for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.NotificationID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "notification_id", message.NotificationID)
	return nil
}
