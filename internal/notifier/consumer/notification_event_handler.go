package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/notifier/service"
	"github.com/givebridge-donation-platform/internal/platform/messaging/producers"
)

// NotificationEventHandler handles incoming notification messages from Kafka
type NotificationEventHandler struct {
	deliveryService service.DeliveryService
	producer        producers.DeadLetterPublisher
	logger          *slog.Logger
}

// NewNotificationEventHandler creates a new handler
func NewNotificationEventHandler(
	logger *slog.Logger,
	deliveryService service.DeliveryService,
	producer producers.DeadLetterPublisher,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		deliveryService: deliveryService,
		producer:        producer,
		logger:          logger,
	}
}

// HandleMessage processes Kafka messages
func (h *NotificationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var notification shared.Notification
	if err := json.Unmarshal(value, &notification); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal notification from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if notification.CorrelationID != "" {
		logger = h.logger.With("correlation_id", notification.CorrelationID)
	}

	logger.Info("Received notification for delivery",
		"notification_id", notification.ID.String(),
		"user_id", notification.UserID.String(),
		"type", string(notification.Type),
	)

	if err := h.deliveryService.Deliver(ctx, &notification); err != nil {
		logger.Error("Failed to deliver notification",
			"notification_id", notification.ID.String(),
			"user_id", notification.UserID.String(),
			"error", err,
		)
		return fmt.Errorf("delivering notification %s failed: %w", notification.ID.String(), err)
	}

	logger.Info("Successfully delivered notification", "notification_id", notification.ID.String())
	return nil // Success, commit offset
}
