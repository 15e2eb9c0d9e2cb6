package gateway

import (
	"context"

	"github.com/google/uuid"
)

// MockGateway issues fake payment handles for local and test environments.
// Signature verification still runs the real HMAC check so webhook handling
// behaves the same in every mode.
type MockGateway struct {
	secret string
}

func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{secret: secret}
}

func (g *MockGateway) CreateIntent(_ context.Context, _ int64, _ string, _ map[string]string) (*Intent, error) {
	return &Intent{
		ClientSecret: "pi_mock_" + uuid.New().String() + "_secret_" + uuid.New().String()[:8],
		OrderID:      "order_mock_" + uuid.New().String(),
		Status:       "requires_confirmation",
	}, nil
}

func (g *MockGateway) VerifySignature(body []byte, signature string) bool {
	return verifySignature(g.secret, body, signature)
}

func (g *MockGateway) ParseEvent(body []byte) (*Event, error) {
	return parseEvent(body)
}
