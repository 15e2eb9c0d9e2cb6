package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter user.ListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) WithTx(tx pgx.Tx) user.Repository {
	return m
}

// MockCharityRepository for testing
type MockCharityRepository struct {
	mock.Mock
}

func (m *MockCharityRepository) Create(ctx context.Context, c *charity.Charity) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCharityRepository) GetByID(ctx context.Context, id uuid.UUID) (*charity.Charity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charity.Charity), args.Error(1)
}

func (m *MockCharityRepository) GetApproved(ctx context.Context, id uuid.UUID) (*charity.Charity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charity.Charity), args.Error(1)
}

func (m *MockCharityRepository) ListApproved(ctx context.Context, filter charity.ListFilter) ([]*charity.Charity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*charity.Charity), args.Error(1)
}

func (m *MockCharityRepository) CountApproved(ctx context.Context, filter charity.ListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCharityRepository) UpdateProfile(ctx context.Context, c *charity.Charity) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCharityRepository) SetGoal(ctx context.Context, id uuid.UUID, goal int64) error {
	args := m.Called(ctx, id, goal)
	return args.Error(0)
}

func (m *MockCharityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status charity.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCharityRepository) AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockCharityRepository) WithTx(tx pgx.Tx) charity.Repository {
	return m
}

// MockEmailSender for testing
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func TestDeliveryService_Deliver(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	recipientID := uuid.New()
	charityID := uuid.New()

	recipient := &user.User{
		ID:       recipientID,
		Email:    "donor@example.com",
		FullName: "Jordan Reed",
		Role:     user.RoleDonor,
	}
	ch := &charity.Charity{
		ID:   charityID,
		Name: "Clean Water Initiative",
	}

	t.Run("DonationReceiptEmail", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{}
		mockCharityRepo := &MockCharityRepository{}
		mockSender := &MockEmailSender{}
		svc := NewDeliveryService(logger, mockUserRepo, mockCharityRepo, mockSender)

		donationID := uuid.New()
		notification := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationDonationReceipt,
			UserID:        recipientID,
			CharityID:     charityID,
			DonationID:    &donationID,
			Amount:        2550,
			Currency:      "USD",
			TransactionID: "pi_abc",
			Timestamp:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		}

		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockCharityRepo.On("GetByID", ctx, charityID).Return(ch, nil).Once()
		mockSender.On("Send", ctx, "donor@example.com", "Your donation to Clean Water Initiative", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "Jordan Reed") &&
				strings.Contains(body, "25.50 USD") &&
				strings.Contains(body, "pi_abc") &&
				strings.Contains(body, "June 15, 2025")
		})).Return(nil).Once()

		err := svc.Deliver(ctx, notification)

		assert.NoError(t, err)
		mockSender.AssertExpectations(t)
	})

	t.Run("CharityStatusEmail", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{}
		mockCharityRepo := &MockCharityRepository{}
		mockSender := &MockEmailSender{}
		svc := NewDeliveryService(logger, mockUserRepo, mockCharityRepo, mockSender)

		notification := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationCharityStatus,
			UserID:        recipientID,
			CharityID:     charityID,
			CharityStatus: "approved",
			Timestamp:     time.Now(),
		}

		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockCharityRepo.On("GetByID", ctx, charityID).Return(ch, nil).Once()
		mockSender.On("Send", ctx, "donor@example.com", "Your charity registration has been approved", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "Clean Water Initiative") && strings.Contains(body, "approved")
		})).Return(nil).Once()

		err := svc.Deliver(ctx, notification)

		assert.NoError(t, err)
		mockSender.AssertExpectations(t)
	})

	t.Run("UnknownRecipient", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{}
		mockCharityRepo := &MockCharityRepository{}
		mockSender := &MockEmailSender{}
		svc := NewDeliveryService(logger, mockUserRepo, mockCharityRepo, mockSender)

		notification := &shared.Notification{
			ID:        uuid.New(),
			Type:      shared.NotificationDonationReceipt,
			UserID:    recipientID,
			CharityID: charityID,
		}

		mockUserRepo.On("GetByID", ctx, recipientID).Return(nil, user.ErrUserNotFound{UserID: recipientID}).Once()

		err := svc.Deliver(ctx, notification)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to resolve notification recipient")
		mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownNotificationType", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{}
		mockCharityRepo := &MockCharityRepository{}
		mockSender := &MockEmailSender{}
		svc := NewDeliveryService(logger, mockUserRepo, mockCharityRepo, mockSender)

		notification := &shared.Notification{
			ID:        uuid.New(),
			Type:      shared.NotificationType("SOMETHING_ELSE"),
			UserID:    recipientID,
			CharityID: charityID,
		}

		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockCharityRepo.On("GetByID", ctx, charityID).Return(ch, nil).Once()

		err := svc.Deliver(ctx, notification)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown notification type")
		mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SenderFailure", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{}
		mockCharityRepo := &MockCharityRepository{}
		mockSender := &MockEmailSender{}
		svc := NewDeliveryService(logger, mockUserRepo, mockCharityRepo, mockSender)

		notification := &shared.Notification{
			ID:        uuid.New(),
			Type:      shared.NotificationDonationReceipt,
			UserID:    recipientID,
			CharityID: charityID,
			Amount:    1000,
			Currency:  "USD",
			Timestamp: time.Now(),
		}

		mockUserRepo.On("GetByID", ctx, recipientID).Return(recipient, nil).Once()
		mockCharityRepo.On("GetByID", ctx, charityID).Return(ch, nil).Once()
		mockSender.On("Send", ctx, "donor@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Return(errors.New("provider timeout")).Once()

		err := svc.Deliver(ctx, notification)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send")
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.50 USD", formatAmount(2550, "USD"))
	assert.Equal(t, "0.05 EUR", formatAmount(5, "EUR"))
	assert.Equal(t, "100.00 GBP", formatAmount(10000, "GBP"))
}
