package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// failingGateway always refuses intent creation
type failingGateway struct {
	gateway.MockGateway
}

func (g *failingGateway) CreateIntent(_ context.Context, _ int64, _ string, _ map[string]string) (*gateway.Intent, error) {
	return nil, &gateway.GatewayError{Op: "create_intent", Err: errors.New("connection refused")}
}

func approvedCharity(id uuid.UUID) *charity.Charity {
	return &charity.Charity{
		ID:     id,
		Name:   "Clean Water Fund",
		Status: charity.StatusApproved,
	}
}

func TestDonationService_Initiate(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	newService := func(donationRepo *MockDonationRepository, charityRepo *MockCharityRepository, projectRepo *MockProjectRepository, gw gateway.PaymentGateway) DonationService {
		return NewDonationService(logger, &fakeTxRunner{}, donationRepo, charityRepo, projectRepo, gw)
	}

	t.Run("Success", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, gateway.NewMockGateway("secret"))

		donorID := uuid.New()
		charityID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).Return(approvedCharity(charityID), nil).Once()
		donationRepo.On("Create", ctx, mock.MatchedBy(func(d *donation.Donation) bool {
			return d.Status == donation.StatusPending && d.Amount == 2500
		})).Return(nil).Once()
		donationRepo.On("SetPaymentHandle", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string")).Return(nil).Once()

		d, intent, err := service.Initiate(ctx, &donorID, charityID, nil, 2500, "USD", false)

		assert.NoError(t, err)
		assert.Equal(t, donation.StatusPending, d.Status)
		assert.True(t, strings.HasPrefix(intent.ClientSecret, "pi_mock_"))
		assert.Equal(t, intent.ClientSecret, d.PaymentHandle)
		donationRepo.AssertExpectations(t)
		charityRepo.AssertExpectations(t)
	})

	t.Run("AnonymousDropsDonor", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, gateway.NewMockGateway("secret"))

		donorID := uuid.New()
		charityID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).Return(approvedCharity(charityID), nil).Once()
		donationRepo.On("Create", ctx, mock.MatchedBy(func(d *donation.Donation) bool {
			return d.DonorID == nil && d.IsAnonymous
		})).Return(nil).Once()
		donationRepo.On("SetPaymentHandle", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string")).Return(nil).Once()

		d, _, err := service.Initiate(ctx, &donorID, charityID, nil, 100, "USD", true)

		assert.NoError(t, err)
		assert.Nil(t, d.DonorID)
	})

	t.Run("ProjectValidatedAgainstCharity", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, gateway.NewMockGateway("secret"))

		donorID := uuid.New()
		charityID := uuid.New()
		projectID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).Return(approvedCharity(charityID), nil).Once()
		projectRepo.On("GetForCharity", ctx, projectID, charityID).
			Return(nil, project.ErrProjectNotFound{ProjectID: projectID}).Once()

		_, _, err := service.Initiate(ctx, &donorID, charityID, &projectID, 100, "USD", false)

		assert.ErrorIs(t, err, project.ErrProjectNotFound{ProjectID: projectID})
		donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnapprovedCharityRejected", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, gateway.NewMockGateway("secret"))

		donorID := uuid.New()
		charityID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).
			Return(nil, charity.ErrCharityNotFound{CharityID: charityID}).Once()

		_, _, err := service.Initiate(ctx, &donorID, charityID, nil, 100, "USD", false)

		assert.ErrorIs(t, err, charity.ErrCharityNotFound{CharityID: charityID})
	})

	t.Run("GatewayFailureRollsBack", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, &failingGateway{})

		donorID := uuid.New()
		charityID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).Return(approvedCharity(charityID), nil).Once()
		donationRepo.On("Create", ctx, mock.AnythingOfType("*donation.Donation")).Return(nil).Once()

		_, _, err := service.Initiate(ctx, &donorID, charityID, nil, 100, "USD", false)

		var gatewayErr *gateway.GatewayError
		assert.ErrorAs(t, err, &gatewayErr)
		donationRepo.AssertNotCalled(t, "SetPaymentHandle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		donationRepo := new(MockDonationRepository)
		charityRepo := new(MockCharityRepository)
		projectRepo := new(MockProjectRepository)
		service := newService(donationRepo, charityRepo, projectRepo, gateway.NewMockGateway("secret"))

		donorID := uuid.New()
		charityID := uuid.New()

		charityRepo.On("GetApproved", ctx, charityID).Return(approvedCharity(charityID), nil).Once()

		_, _, err := service.Initiate(ctx, &donorID, charityID, nil, 0, "USD", false)

		assert.ErrorIs(t, err, donation.ErrInvalidAmount)
	})
}

func TestDonationService_History(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	donationRepo := new(MockDonationRepository)
	service := NewDonationService(logger, &fakeTxRunner{}, donationRepo, new(MockCharityRepository), new(MockProjectRepository), gateway.NewMockGateway("secret"))

	donorID := uuid.New()
	entries := []*donation.HistoryEntry{
		{CharityName: "Clean Water Fund"},
	}

	donationRepo.On("ListCompletedByDonor", ctx, donorID, 10, 10).Return(entries, nil).Once()
	donationRepo.On("CountCompletedByDonor", ctx, donorID).Return(int64(11), nil).Once()

	result, total, err := service.History(ctx, donorID, 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.Len(t, result, 1)
	donationRepo.AssertExpectations(t)
}

func TestDonationService_GetReceipt(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	donationRepo := new(MockDonationRepository)
	service := NewDonationService(logger, &fakeTxRunner{}, donationRepo, new(MockCharityRepository), new(MockProjectRepository), gateway.NewMockGateway("secret"))

	donationID := uuid.New()
	donorID := uuid.New()

	donationRepo.On("GetCompletedForDonor", ctx, donationID, donorID).
		Return(nil, donation.ErrDonationNotFound{DonationID: donationID}).Once()

	_, err := service.GetReceipt(ctx, donationID, donorID)

	assert.ErrorIs(t, err, donation.ErrDonationNotFound{DonationID: donationID})
}
