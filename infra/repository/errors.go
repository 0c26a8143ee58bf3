package repository

import (
	"errors"

	"github.com/chessstake/wallet/pkg/domain"
	"gorm.io/gorm"
)

// mapTransactionErr translates storage errors into ledger domain errors.
func mapTransactionErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrTransactionNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateReference
	default:
		return err
	}
}

// mapWalletErr translates storage errors into wallet domain errors.
func mapWalletErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrWalletNotFound
	default:
		return err
	}
}
