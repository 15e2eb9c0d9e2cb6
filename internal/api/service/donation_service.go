package service

import (
	"context"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/givebridge-donation-platform/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DonationServiceImpl implements the DonationService interface
type DonationServiceImpl struct {
	db           TxRunner
	donationRepo donation.Repository
	charityRepo  charity.Repository
	projectRepo  project.Repository
	gateway      gateway.PaymentGateway
	logger       *slog.Logger
}

// NewDonationService creates a new donation service
func NewDonationService(
	logger *slog.Logger,
	db TxRunner,
	donationRepo donation.Repository,
	charityRepo charity.Repository,
	projectRepo project.Repository,
	paymentGateway gateway.PaymentGateway,
) DonationService {
	return &DonationServiceImpl{
		db:           db,
		donationRepo: donationRepo,
		charityRepo:  charityRepo,
		projectRepo:  projectRepo,
		gateway:      paymentGateway,
		logger:       logger,
	}
}

// Initiate creates a pending donation and registers a payment intent with the
// gateway. The donation row and its payment handle are written in one
// transaction, so a gateway failure leaves no orphaned donation behind.
func (s *DonationServiceImpl) Initiate(ctx context.Context, donorID *uuid.UUID, charityID uuid.UUID, projectID *uuid.UUID, amount int64, currency string, anonymous bool) (*donation.Donation, *gateway.Intent, error) {
	if _, err := s.charityRepo.GetApproved(ctx, charityID); err != nil {
		return nil, nil, err
	}

	if projectID != nil {
		if _, err := s.projectRepo.GetForCharity(ctx, *projectID, charityID); err != nil {
			return nil, nil, err
		}
	}

	d, err := donation.New(donorID, charityID, projectID, amount, currency, anonymous)
	if err != nil {
		return nil, nil, err
	}

	var intent *gateway.Intent
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.donationRepo.WithTx(tx)
		if err := txRepo.Create(ctx, d); err != nil {
			return err
		}

		metadata := map[string]string{"donation_id": d.ID.String()}
		intent, err = s.gateway.CreateIntent(ctx, amount, currency, metadata)
		if err != nil {
			return err
		}

		d.PaymentHandle = intent.ClientSecret
		return txRepo.SetPaymentHandle(ctx, d.ID, intent.ClientSecret)
	})
	if err != nil {
		s.logger.Error("Failed to initiate donation",
			"charity_id", charityID,
			"amount", amount,
			"error", err,
		)
		return nil, nil, err
	}

	metrics.DonationsInitiated.Inc()
	s.logger.Info("Donation initiated",
		"donation_id", d.ID,
		"charity_id", charityID,
		"amount", amount,
		"currency", currency,
	)

	return d, intent, nil
}

// History retrieves a donor's completed donations, newest first
func (s *DonationServiceImpl) History(ctx context.Context, donorID uuid.UUID, page, perPage int) ([]*donation.HistoryEntry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.donationRepo.ListCompletedByDonor(ctx, donorID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.donationRepo.CountCompletedByDonor(ctx, donorID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetReceipt retrieves a completed donation owned by the donor
func (s *DonationServiceImpl) GetReceipt(ctx context.Context, id, donorID uuid.UUID) (*donation.Donation, error) {
	return s.donationRepo.GetCompletedForDonor(ctx, id, donorID)
}
