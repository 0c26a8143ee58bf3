package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chessstake/wallet/pkg/domain"
	"github.com/google/uuid"
)

// Wallet is the persisted per-user balance row.
type Wallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0"`
	IsDemo    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Wallet model.
func (Wallet) TableName() string { return "wallets" }

// Transaction is the persisted ledger row.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	Amount    int64     `gorm:"not null"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending';index"`
	Reference string    `gorm:"type:varchar(64);index"`
	Payout    *PayoutJSON
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// PayoutJSON stores validated payout details as a JSON column.
type PayoutJSON domain.PayoutDetails

// Value implements driver.Valuer.
func (p PayoutJSON) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *PayoutJSON) Scan(value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported payout column type %T", value)
	}
}
