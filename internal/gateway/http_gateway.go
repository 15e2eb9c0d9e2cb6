package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// HTTPGateway talks to a real payment provider over its REST API
type HTTPGateway struct {
	endpoint string
	secret   string
	client   *http.Client
	logger   *slog.Logger
}

func NewHTTPGateway(endpoint, secret string, timeout time.Duration, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		endpoint: endpoint,
		secret:   secret,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type createIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateIntent registers a payment intent with the provider and returns
// the handle the client completes the payment against
func (g *HTTPGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	body, err := json.Marshal(createIntentRequest{
		Amount:   amount,
		Currency: currency,
		Metadata: metadata,
	})
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/v1/payment_intents", bytes.NewBuffer(body))
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Error("Payment provider rejected intent creation",
			"status_code", resp.StatusCode,
			"amount", amount,
			"currency", currency)
		return nil, &GatewayError{Op: "create_intent", Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	return &intent, nil
}

func (g *HTTPGateway) VerifySignature(body []byte, signature string) bool {
	return verifySignature(g.secret, body, signature)
}

func (g *HTTPGateway) ParseEvent(body []byte) (*Event, error) {
	return parseEvent(body)
}
