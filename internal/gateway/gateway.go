package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Outcome classifies a webhook event after normalization
type Outcome string

const (
	OutcomeSettled      Outcome = "settled"
	OutcomeFailed       Outcome = "failed"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// Intent is the provider-side payment handle created for a donation
type Intent struct {
	ClientSecret string `json:"client_secret"`
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
}

// Event is a webhook event normalized across provider payload shapes
type Event struct {
	ID            string
	Outcome       Outcome
	DonationID    string
	TransactionID string
	Amount        int64
	Currency      string
}

// PaymentGateway abstracts the external payment provider
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	VerifySignature(body []byte, signature string) bool
	ParseEvent(body []byte) (*Event, error)
}

// ErrMissingDonationRef indicates a recognized event that carries no donation reference
var ErrMissingDonationRef = errors.New("webhook event carries no donation reference")

// GatewayError wraps provider call failures
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
