package audit

import (
	"time"

	"github.com/google/uuid"
)

// Result classifies how a webhook delivery was handled
type Result string

const (
	ResultSettled           Result = "settled"
	ResultFailed            Result = "failed"
	ResultDuplicate         Result = "duplicate"
	ResultUnrecognized      Result = "unrecognized"
	ResultRejectedSignature Result = "rejected_signature"
	ResultError             Result = "error"
)

// GatewayEvent records one webhook delivery from the payment provider.
// Every delivery is recorded regardless of outcome, including rejected
// signatures, so disputed settlements can be traced after the fact.
type GatewayEvent struct {
	ID            uuid.UUID `bson:"id" json:"id"`
	EventID       string    `bson:"event_id" json:"event_id"`
	DonationID    string    `bson:"donation_id,omitempty" json:"donation_id,omitempty"`
	TransactionID string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Result        Result    `bson:"result" json:"result"`
	Amount        int64     `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency      string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Detail        string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CorrelationID string    `bson:"correlation_id,omitempty" json:"correlation_id,omitempty"`
	ReceivedAt    time.Time `bson:"received_at" json:"received_at"`
}

// NewGatewayEvent creates an audit record for a webhook delivery
func NewGatewayEvent(eventID string, result Result) *GatewayEvent {
	return &GatewayEvent{
		ID:         uuid.New(),
		EventID:    eventID,
		Result:     result,
		ReceivedAt: time.Now(),
	}
}
