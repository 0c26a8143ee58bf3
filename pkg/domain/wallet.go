package domain

import (
	"time"

	"github.com/chessstake/wallet/pkg/currency"
	"github.com/google/uuid"
)

// Wallet is a per-user coin balance. Balance is mutated in place, only by the
// reconciliation engine or withdrawal initiation, and never goes negative.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   currency.Amount
	IsDemo    bool
	UpdatedAt time.Time
}
