// Package repository defines the persistence contracts the reconciliation
// engine relies on. The only concurrency-control primitive is
// TransactionRepository.TryClaim, an atomic conditional status update.
package repository

import (
	"context"

	"github.com/chessstake/wallet/pkg/dto"
	"github.com/google/uuid"
)

// TransactionRepository is the ledger store.
type TransactionRepository interface {
	// Create inserts a new ledger row. Returns domain.ErrDuplicateReference
	// when the reference already exists among non-failed rows.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// Get retrieves a transaction by its ID.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// GetByReference retrieves a transaction by its idempotency reference.
	// Returns domain.ErrTransactionNotFound on a miss.
	GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error)

	// TryClaim atomically moves the row from fromStatus to toStatus only if
	// its current status still equals fromStatus. It reports whether this
	// caller won the claim. The implementation must be a single conditional
	// read-modify-write at the storage layer, not a read-then-write pair.
	TryClaim(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error)

	// SetStatus unconditionally writes a status. Callers must already hold an
	// exclusive claim on the row.
	SetStatus(ctx context.Context, id uuid.UUID, status string) error

	// Update applies a partial update to the row.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error

	// ListByWallet lists a wallet's transactions, newest first.
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*dto.TransactionRead, error)
}

// WalletRepository is the balance store. ApplyDelta is not idempotent; the
// engine's claim step guarantees it runs at most once per reconciled
// transaction.
type WalletRepository interface {
	// Create inserts a wallet row.
	Create(ctx context.Context, create dto.WalletCreate) error

	// Get retrieves a wallet by ID. Returns domain.ErrWalletNotFound on a miss.
	Get(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error)

	// GetByUser retrieves the user's wallet. Returns domain.ErrWalletNotFound
	// on a miss.
	GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error)

	// ApplyDelta adds delta (positive or negative) centicoins to the balance
	// in a single guarded update. Returns domain.ErrInsufficientFunds if the
	// result would be negative.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*dto.WalletRead, error)
}

// UnitOfWork runs repository work inside one storage transaction. Do rolls
// the whole boundary back when fn returns an error, which is what reverts a
// claim if a later step fails.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	TransactionRepository() (TransactionRepository, error)
	WalletRepository() (WalletRepository, error)
}
