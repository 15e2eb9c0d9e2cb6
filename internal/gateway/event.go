package gateway

import (
	"encoding/json"
	"fmt"
)

// rawEvent covers both payload shapes the supported providers emit:
// intent-style events nest the payment under data.object with metadata,
// order-style events put amount and currency at the top level with a
// payload map for references.
type rawEvent struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Event string `json:"event"`
	Data  struct {
		Object struct {
			ID       string            `json:"id"`
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Payload  map[string]string `json:"payload"`
}

func parseEvent(body []byte) (*Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	evt := &Event{
		ID:            raw.ID,
		Outcome:       OutcomeUnrecognized,
		TransactionID: raw.Data.Object.ID,
		Amount:        raw.Data.Object.Amount,
		Currency:      raw.Data.Object.Currency,
	}
	if evt.TransactionID == "" {
		evt.TransactionID = raw.ID
	}
	if evt.Amount == 0 {
		evt.Amount = raw.Amount
	}
	if evt.Currency == "" {
		evt.Currency = raw.Currency
	}

	refs := raw.Data.Object.Metadata
	if refs == nil {
		refs = raw.Payload
	}
	if refs != nil {
		evt.DonationID = refs["donation_id"]
	}

	switch {
	case raw.Type == "payment_intent.succeeded" || raw.Event == "payment.captured":
		evt.Outcome = OutcomeSettled
	case raw.Type == "payment_intent.failed" || raw.Event == "payment.failed":
		evt.Outcome = OutcomeFailed
	}

	return evt, nil
}
