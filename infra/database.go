// Package infra wires external resources: the Postgres connection and schema.
package infra

import (
	"fmt"

	"github.com/chessstake/wallet/infra/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the Postgres connection, migrates the schema and installs
// the partial unique index that makes references the idempotency key among
// non-failed rows.
func NewDatabase(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&repository.Wallet{}, &repository.Transaction{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	// References must be unique only among non-failed rows so a failed deposit
	// can be retried under the same reference.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_reference_active
		 ON transactions (reference)
		 WHERE status <> 'failed' AND reference <> ''`,
	).Error
	if err != nil {
		return nil, fmt.Errorf("create reference index: %w", err)
	}
	return db, nil
}
