package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/givebridge-donation-platform/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(slog.Default(), &config.EmailConfig{
		APIURL:  server.URL,
		APIKey:  apiKey,
		Sender:  "no-reply@givebridge.org",
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestClient_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("PostsEmailPayload", func(t *testing.T) {
		var received sendRequest
		var authHeader, contentType string

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			contentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusAccepted)
		}, "test-api-key")

		err := client.Send(ctx, "donor@example.com", "Your donation receipt", "Thank you!")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer test-api-key", authHeader)
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "no-reply@givebridge.org", received.From)
		assert.Equal(t, "donor@example.com", received.To)
		assert.Equal(t, "Your donation receipt", received.Subject)
		assert.Equal(t, "Thank you!", received.Body)
	})

	t.Run("NoAuthHeaderWithoutKey", func(t *testing.T) {
		var authHeader string

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}, "")

		err := client.Send(ctx, "donor@example.com", "subject", "body")

		assert.NoError(t, err)
		assert.Empty(t, authHeader)
	})

	t.Run("ProviderErrorReturned", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream unavailable"))
		}, "test-api-key")

		err := client.Send(ctx, "donor@example.com", "subject", "body")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream unavailable")
	})

	t.Run("UnreachableProvider", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, "")
		server.Close()

		err := client.Send(ctx, "donor@example.com", "subject", "body")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "email API request failed")
	})
}
