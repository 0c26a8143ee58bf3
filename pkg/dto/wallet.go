package dto

import (
	"time"

	"github.com/google/uuid"
)

// WalletRead is a read-optimized DTO for wallet queries and API responses.
type WalletRead struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   int64 // centicoins
	IsDemo    bool
	UpdatedAt time.Time
}

// WalletCreate is a DTO for creating a wallet on first funding attempt.
type WalletCreate struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Balance int64
	IsDemo  bool
}
