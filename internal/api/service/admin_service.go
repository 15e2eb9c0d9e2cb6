package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/audit"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/outbox"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdminServiceImpl implements the AdminService interface
type AdminServiceImpl struct {
	db          TxRunner
	userRepo    user.Repository
	charityRepo charity.Repository
	outboxRepo  outbox.Repository
	auditRepo   audit.Repository
	logger      *slog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	logger *slog.Logger,
	db TxRunner,
	userRepo user.Repository,
	charityRepo charity.Repository,
	outboxRepo outbox.Repository,
	auditRepo audit.Repository,
) AdminService {
	return &AdminServiceImpl{
		db:          db,
		userRepo:    userRepo,
		charityRepo: charityRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// ListUsers retrieves accounts matching the filter, with total count
func (s *AdminServiceImpl) ListUsers(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// DeleteUser removes an account
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", "user_id", id)
	return nil
}

// ModerateCharity approves or rejects a pending charity. The status change
// and the owner's notification are committed in the same transaction.
func (s *AdminServiceImpl) ModerateCharity(ctx context.Context, charityID uuid.UUID, status charity.Status, correlationID string) (*charity.Charity, error) {
	if status != charity.StatusApproved && status != charity.StatusRejected {
		return nil, charity.ErrInvalidStatusValue
	}

	c, err := s.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.charityRepo.WithTx(tx).UpdateStatus(ctx, charityID, status); err != nil {
			return err
		}

		notification := &shared.Notification{
			ID:            uuid.New(),
			Type:          shared.NotificationCharityStatus,
			UserID:        charityID,
			CharityID:     charityID,
			CharityStatus: string(status),
			CorrelationID: correlationID,
			Timestamp:     time.Now(),
		}

		message, err := outbox.NewMessage(notification)
		if err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	c.Status = status
	s.logger.Info("Charity moderated", "charity_id", charityID, "status", string(status))
	return c, nil
}

// ListGatewayEvents browses the webhook delivery audit log
func (s *AdminServiceImpl) ListGatewayEvents(ctx context.Context, start, end time.Time, page, perPage int) ([]*audit.GatewayEvent, error) {
	offset := (page - 1) * perPage
	return s.auditRepo.ListByTimeRange(ctx, start, end, perPage, offset)
}
