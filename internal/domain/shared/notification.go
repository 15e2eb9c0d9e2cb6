package shared

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the kinds of donor/charity emails the platform sends
type NotificationType string

const (
	NotificationDonationReceipt NotificationType = "DONATION_RECEIPT"
	NotificationCharityStatus   NotificationType = "CHARITY_STATUS"
)

// Notification defines a Kafka message for notification delivery.
// It is written to the notification outbox in the same database transaction
// as the state change it announces and published to Kafka by the poller.
type Notification struct {
	ID            uuid.UUID        `json:"id"`
	Type          NotificationType `json:"type"`
	UserID        uuid.UUID        `json:"user_id"`
	CharityID     uuid.UUID        `json:"charity_id"`
	DonationID    *uuid.UUID       `json:"donation_id,omitempty"`
	Amount        int64            `json:"amount,omitempty"` // Stored in cents/minor units
	Currency      string           `json:"currency,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty"`
	CharityStatus string           `json:"charity_status,omitempty"`
	CorrelationID string           `json:"correlation_id,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}
