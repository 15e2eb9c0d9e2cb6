package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/domain/user"
)

// DeliveryServiceImpl implements the DeliveryService interface. It resolves
// the recipient and charity details and renders the email for each
// notification type.
type DeliveryServiceImpl struct {
	userRepo    user.Repository
	charityRepo charity.Repository
	sender      EmailSender
	logger      *slog.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(logger *slog.Logger, userRepo user.Repository, charityRepo charity.Repository, sender EmailSender) DeliveryService {
	return &DeliveryServiceImpl{
		userRepo:    userRepo,
		charityRepo: charityRepo,
		sender:      sender,
		logger:      logger,
	}
}

// Deliver renders and sends the email for a notification
func (s *DeliveryServiceImpl) Deliver(ctx context.Context, notification *shared.Notification) error {
	recipient, err := s.userRepo.GetByID(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient %s: %w", notification.UserID, err)
	}

	ch, err := s.charityRepo.GetByID(ctx, notification.CharityID)
	if err != nil {
		return fmt.Errorf("failed to resolve charity %s: %w", notification.CharityID, err)
	}

	var subject, body string
	switch notification.Type {
	case shared.NotificationDonationReceipt:
		subject = fmt.Sprintf("Your donation to %s", ch.Name)
		body = fmt.Sprintf(
			"Dear %s,\n\nThank you for your donation of %s to %s.\n\nTransaction reference: %s\nDate: %s\n\nThis email serves as your donation receipt.",
			recipient.FullName,
			formatAmount(notification.Amount, notification.Currency),
			ch.Name,
			notification.TransactionID,
			notification.Timestamp.Format("January 2, 2006"),
		)

	case shared.NotificationCharityStatus:
		subject = fmt.Sprintf("Your charity registration has been %s", notification.CharityStatus)
		body = fmt.Sprintf(
			"Dear %s,\n\nThe registration of %s has been %s.\n\nIf you have questions about this decision, reply to this email.",
			recipient.FullName,
			ch.Name,
			notification.CharityStatus,
		)

	default:
		return fmt.Errorf("unknown notification type: %s", notification.Type)
	}

	if err := s.sender.Send(ctx, recipient.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", notification.Type, recipient.Email, err)
	}

	s.logger.Info("Notification delivered",
		"notification_id", notification.ID,
		"type", string(notification.Type),
		"user_id", notification.UserID,
	)
	return nil
}

// formatAmount renders a minor-unit amount as a human readable figure
func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", amount/100, amount%100, currency)
}
