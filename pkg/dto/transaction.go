package dto

import (
	"time"

	"github.com/chessstake/wallet/pkg/domain"
	"github.com/google/uuid"
)

// TransactionRead is a read-optimized DTO for ledger queries and API
// responses.
type TransactionRead struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Kind      string
	Amount    int64 // centicoins
	Status    string
	Reference string
	Payout    *domain.PayoutDetails
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionCreate is a DTO for inserting a new ledger row.
type TransactionCreate struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Kind      string
	Amount    int64 // centicoins
	Status    string
	Reference string
	Payout    *domain.PayoutDetails
}

// TransactionUpdate is a DTO for updating one or more ledger fields.
type TransactionUpdate struct {
	Status    *string
	Reference *string
	Payout    *domain.PayoutDetails
}
