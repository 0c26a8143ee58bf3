// Package domain holds the wallet ledger entities and the transaction status
// state machine the reconciliation engine advances.
package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/chessstake/wallet/pkg/currency"
	"github.com/google/uuid"
)

// TransactionKind discriminates deposits from withdrawals.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// TransactionStatus is a ledger row status. Transitions move strictly
// forward: pending -> processing -> completed|failed. Terminal states are
// immutable.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Transaction is a ledger row. ID, WalletID, Kind, Amount and Reference are
// immutable once created; only Status (and UpdatedAt) advance.
type Transaction struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Kind      TransactionKind
	Amount    currency.Amount
	Status    TransactionStatus
	Reference string
	Payout    *PayoutDetails
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReference generates an externally correlatable idempotency key in the
// same shape the rail callbacks echo back.
func NewReference() string {
	return fmt.Sprintf("chess_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}
