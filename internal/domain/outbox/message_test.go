package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		donationID := uuid.New()
		n := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationDonationReceipt,
			UserID:        uuid.New(),
			CharityID:     uuid.New(),
			DonationID:    &donationID,
			Amount:        2500,
			Currency:      "USD",
			TransactionID: "pi_test_123",
			Timestamp:     time.Now().Add(-time.Minute),
		}

		beforeCreation := time.Now()
		msg, err := NewMessage(n)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, n.ID, msg.NotificationID)
		assert.Equal(t, n.UserID, msg.UserID)
		assert.Equal(t, shared.OutboxStatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)
		assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

		// Check payload
		var decoded shared.Notification
		err = json.Unmarshal(msg.Payload, &decoded)
		require.NoError(t, err)
		assert.Equal(t, n.ID, decoded.ID)
		assert.Equal(t, n.Amount, decoded.Amount)
	})
}

func TestMessage_IncrementAttempts(t *testing.T) {
	t.Run("SuccessfulIncrement", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Attempts:      1,
			LastAttemptAt: &initialTime,
		}
		initialAttempts := msg.Attempts

		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.IncrementAttempts()
		afterUpdate := time.Now()

		assert.Equal(t, initialAttempts+1, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	t.Run("SuccessfulMarkAsProcessed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        shared.OutboxStatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsProcessed()
		afterUpdate := time.Now()

		assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsFailed(t *testing.T) {
	t.Run("SuccessfulMarkAsFailed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        shared.OutboxStatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsFailed()
		afterUpdate := time.Now()

		assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_GetNotification(t *testing.T) {
	t.Run("SuccessfulGetNotification", func(t *testing.T) {
		original := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationCharityStatus,
			UserID:        uuid.New(),
			CharityID:     uuid.New(),
			CharityStatus: "approved",
			Timestamp:     time.Now().Truncate(time.Millisecond), // Truncate for consistent comparison
		}
		payload, err := json.Marshal(original)
		require.NoError(t, err)

		msg := &Message{Payload: payload}
		decoded, err := msg.GetNotification()

		require.NoError(t, err)
		require.NotNil(t, decoded)
		assert.Equal(t, original.ID, decoded.ID)
		assert.Equal(t, original.UserID, decoded.UserID)
		assert.Equal(t, original.Type, decoded.Type)
		assert.Equal(t, original.CharityID, decoded.CharityID)
		assert.Equal(t, original.CharityStatus, decoded.CharityStatus)
		assert.True(t, original.Timestamp.Equal(decoded.Timestamp), "Timestamp should match")
	})
}
