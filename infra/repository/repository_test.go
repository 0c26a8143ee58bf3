package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chessstake/wallet/pkg/domain"
	repo "github.com/chessstake/wallet/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func walletRows(id, userID uuid.UUID, balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "is_demo", "created_at", "updated_at"}).
		AddRow(id, userID, balance, false, time.Now(), time.Now())
}

func transactionRows(tx Transaction) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "wallet_id", "kind", "amount", "status", "reference", "payout", "created_at", "updated_at",
	}).AddRow(tx.ID, tx.WalletID, tx.Kind, tx.Amount, tx.Status, tx.Reference, nil, time.Now(), time.Now())
}

func TestTryClaim_WinnerSeesOneRowAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.TryClaim(context.Background(), id, "pending", "processing")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryClaim_LoserSeesZeroRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.TryClaim(context.Background(), id, "pending", "processing")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryClaim_IllegalTransitionNeverHitsStorage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	claimed, err := repo.TryClaim(context.Background(), uuid.New(), "completed", "pending")
	require.Error(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByReference_NotFoundMapsToDomainError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByReference(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestGetByReference_ReturnsLiveRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	row := Transaction{
		ID:        uuid.New(),
		WalletID:  uuid.New(),
		Kind:      "deposit",
		Amount:    500,
		Status:    "pending",
		Reference: "R1",
	}

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WithArgs("R1", 1).
		WillReturnRows(transactionRows(row))

	got, err := repo.GetByReference(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, int64(500), got.Amount)
}

func TestApplyDelta_AppliesGuardedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository(db)
	id := uuid.New()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WillReturnRows(walletRows(id, userID, 500))

	w, err := repo.ApplyDelta(context.Background(), id, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDelta_GuardRejectionIsInsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository(db)
	id := uuid.New()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Wallet exists, so the zero-row update means the balance guard fired.
	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WillReturnRows(walletRows(id, userID, 100))

	_, err := repo.ApplyDelta(context.Background(), id, -500)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestApplyDelta_MissingWalletIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ApplyDelta(context.Background(), uuid.New(), 500)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestSetStatus_MissingRowIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), uuid.New(), "failed")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestUoWDo_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		txRepo, err := u.TransactionRepository()
		require.NoError(t, err)
		require.NoError(t, txRepo.SetStatus(context.Background(), uuid.New(), "failed"))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoWDo_CommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		txRepo, err := u.TransactionRepository()
		require.NoError(t, err)
		return txRepo.SetStatus(context.Background(), uuid.New(), "failed")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
