package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/givebridge-donation-platform/internal/domain/donation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var donationRowColumns = []string{"id", "donor_id", "charity_id", "project_id", "amount", "currency", "status", "payment_handle", "external_ref", "is_anonymous", "settled_at", "created_at", "updated_at"}

func TestDonationRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}

	donorID := uuid.New()
	d := &donation.Donation{
		ID:        uuid.New(),
		DonorID:   &donorID,
		CharityID: uuid.New(),
		Amount:    2500,
		Currency:  "USD",
		Status:    donation.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO donations \(id, donor_id, charity_id, project_id, amount, currency, status, payment_handle, external_ref, is_anonymous, settled_at, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12, \$13\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.ID, d.DonorID, d.CharityID, d.ProjectID, d.Amount, d.Currency, d.Status, (*string)(nil), (*string)(nil), d.IsAnonymous, d.SettledAt, d.CreatedAt, d.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, d)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// A freshly initiated donation has no payment handle or external ref yet,
	// so both bind as NULL. The schema keeps those columns nullable for this.
	t.Run("fresh donation stores null handle and ref", func(t *testing.T) {
		fresh, err := donation.New(&donorID, d.CharityID, nil, 2500, "USD", false)
		require.NoError(t, err)
		require.Empty(t, fresh.PaymentHandle)

		mock.ExpectExec(query).
			WithArgs(fresh.ID, fresh.DonorID, fresh.CharityID, fresh.ProjectID, fresh.Amount, fresh.Currency, donation.StatusPending, (*string)(nil), (*string)(nil), fresh.IsAnonymous, fresh.SettledAt, fresh.CreatedAt, fresh.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.Create(ctx, fresh)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(d.ID, d.DonorID, d.CharityID, d.ProjectID, d.Amount, d.Currency, d.Status, (*string)(nil), (*string)(nil), d.IsAnonymous, d.SettledAt, d.CreatedAt, d.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, d)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create donation")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}
	donationID := uuid.New()
	donorID := uuid.New()
	now := time.Now()
	handle := "pi_mock_abc"

	query := `
		SELECT id, donor_id, charity_id, project_id, amount, currency, status, payment_handle, external_ref, is_anonymous, settled_at, created_at, updated_at
		FROM donations
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(donationRowColumns).
			AddRow(donationID, &donorID, uuid.New(), (*uuid.UUID)(nil), int64(2500), "USD", donation.StatusPending, &handle, (*string)(nil), false, (*time.Time)(nil), now, now)
		mock.ExpectQuery(query).WithArgs(donationID).WillReturnRows(rows)

		d, err := repo.GetByID(ctx, donationID)
		assert.NoError(t, err)
		assert.Equal(t, donationID, d.ID)
		assert.Equal(t, donation.StatusPending, d.Status)
		assert.Equal(t, handle, d.PaymentHandle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(donationID).WillReturnError(pgx.ErrNoRows)

		d, err := repo.GetByID(ctx, donationID)
		assert.Error(t, err)
		assert.Nil(t, d)
		var notFoundErr donation.ErrDonationNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, donationID, notFoundErr.DonationID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_LockPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}
	donationID := uuid.New()
	donorID := uuid.New()
	now := time.Now()

	query := `
		SELECT id, donor_id, charity_id, project_id, amount, currency, status, payment_handle, external_ref, is_anonymous, settled_at, created_at, updated_at
		FROM donations
		WHERE id = \$1
		FOR UPDATE
	`

	t.Run("pending donation", func(t *testing.T) {
		rows := pgxmock.NewRows(donationRowColumns).
			AddRow(donationID, &donorID, uuid.New(), (*uuid.UUID)(nil), int64(2500), "USD", donation.StatusPending, (*string)(nil), (*string)(nil), false, (*time.Time)(nil), now, now)
		mock.ExpectQuery(query).WithArgs(donationID).WillReturnRows(rows)

		d, err := repo.LockPending(ctx, donationID)
		assert.NoError(t, err)
		assert.Equal(t, donation.StatusPending, d.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already completed", func(t *testing.T) {
		settled := now.Add(-time.Hour)
		externalRef := "txn_abc"
		rows := pgxmock.NewRows(donationRowColumns).
			AddRow(donationID, &donorID, uuid.New(), (*uuid.UUID)(nil), int64(2500), "USD", donation.StatusCompleted, (*string)(nil), &externalRef, false, &settled, now, now)
		mock.ExpectQuery(query).WithArgs(donationID).WillReturnRows(rows)

		d, err := repo.LockPending(ctx, donationID)
		assert.Error(t, err)
		assert.Nil(t, d)
		var notPendingErr donation.ErrDonationNotPending
		assert.ErrorAs(t, err, &notPendingErr)
		assert.Equal(t, donationID, notPendingErr.DonationID)
		assert.Equal(t, donation.StatusCompleted, notPendingErr.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(donationID).WillReturnError(pgx.ErrNoRows)

		d, err := repo.LockPending(ctx, donationID)
		assert.Error(t, err)
		assert.Nil(t, d)
		var notFoundErr donation.ErrDonationNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_MarkCompleted(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}
	donationID := uuid.New()
	settledAt := time.Now()
	externalRef := "txn_123"

	query := `
		UPDATE donations
		SET status = \$1, external_ref = \$2, settled_at = \$3, updated_at = \$3
		WHERE id = \$4 AND status = \$5
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(donation.StatusCompleted, externalRef, settledAt, donationID, donation.StatusPending).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkCompleted(ctx, donationID, externalRef, settledAt)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no longer pending", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(donation.StatusCompleted, externalRef, settledAt, donationID, donation.StatusPending).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkCompleted(ctx, donationID, externalRef, settledAt)
		assert.Error(t, err)
		var notPendingErr donation.ErrDonationNotPending
		assert.ErrorAs(t, err, &notPendingErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}
	donationID := uuid.New()

	query := `
		UPDATE donations
		SET status = \$1, updated_at = NOW\(\)
		WHERE id = \$2 AND status = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(donation.StatusFailed, donationID, donation.StatusPending).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkFailed(ctx, donationID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no longer pending", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(donation.StatusFailed, donationID, donation.StatusPending).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkFailed(ctx, donationID)
		assert.Error(t, err)
		var notPendingErr donation.ErrDonationNotPending
		assert.ErrorAs(t, err, &notPendingErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_SetPaymentHandle(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DonationRepository{querier: mock, logger: logger}
	donationID := uuid.New()
	handle := "pi_mock_xyz"

	query := `
		UPDATE donations
		SET payment_handle = \$1, updated_at = NOW\(\)
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(handle, donationID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.SetPaymentHandle(ctx, donationID, handle)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(handle, donationID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetPaymentHandle(ctx, donationID, handle)
		assert.Error(t, err)
		var notFoundErr donation.ErrDonationNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDonationRepository_WithTx(t *testing.T) {
	logger := newTestLogger()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	originalRepo := &DonationRepository{querier: mockPool, logger: logger}

	mockPool.ExpectBegin()
	pgxTx, err := mockPool.Begin(context.Background())
	require.NoError(t, err)

	txRepo := originalRepo.WithTx(pgxTx)

	assert.NotNil(t, txRepo)
	assert.Equal(t, originalRepo.logger, txRepo.(*DonationRepository).logger)
	assert.Equal(t, pgxTx, txRepo.(*DonationRepository).querier, "Querier in new repo should be the transaction")

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
