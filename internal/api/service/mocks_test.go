package service

import (
	"context"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/audit"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/givebridge-donation-platform/internal/domain/outbox"
	"github.com/givebridge-donation-platform/internal/domain/project"
	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner executes the transaction function directly so service logic
// can be tested without a database
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) SetPaymentHandle(ctx context.Context, id uuid.UUID, handle string) error {
	args := m.Called(ctx, id, handle)
	return args.Error(0)
}

func (m *MockDonationRepository) LockPending(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) MarkCompleted(ctx context.Context, id uuid.UUID, externalRef string, settledAt time.Time) error {
	args := m.Called(ctx, id, externalRef, settledAt)
	return args.Error(0)
}

func (m *MockDonationRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDonationRepository) ListCompletedByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*donation.HistoryEntry, error) {
	args := m.Called(ctx, donorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.HistoryEntry), args.Error(1)
}

func (m *MockDonationRepository) CountCompletedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, donorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationRepository) GetCompletedForDonor(ctx context.Context, id, donorID uuid.UUID) (*donation.Donation, error) {
	args := m.Called(ctx, id, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) WithTx(_ pgx.Tx) donation.Repository {
	return m
}

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

func (m *MockCharityRepository) WithTx(_ pgx.Tx) charity.Repository {
	return m
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) GetForCharity(ctx context.Context, id, charityID uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByCharity(ctx context.Context, charityID uuid.UUID) ([]*project.Project, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.Project), args.Error(1)
}

func (m *MockProjectRepository) AddToRaised(ctx context.Context, id uuid.UUID, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockProjectRepository) WithTx(_ pgx.Tx) project.Repository {
	return m
}

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

func (m *MockUserRepository) WithTx(_ pgx.Tx) user.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(_ pgx.Tx) outbox.Repository {
	return m
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, event *audit.GatewayEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByDonation(ctx context.Context, donationID string, limit, offset int) ([]*audit.GatewayEvent, error) {
	args := m.Called(ctx, donationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.GatewayEvent), args.Error(1)
}

func (m *MockAuditRepository) ListByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*audit.GatewayEvent, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.GatewayEvent), args.Error(1)
}

func (m *MockAuditRepository) CountByResult(ctx context.Context, result audit.Result) (int64, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(int64), args.Error(1)
}
