package repository

import (
	"context"

	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	repo "github.com/chessstake/wallet/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates the GORM-backed balance store.
func NewWalletRepository(db *gorm.DB) repo.WalletRepository {
	return &walletRepository{db: db}
}

// Create implements repository.WalletRepository.
func (r *walletRepository) Create(ctx context.Context, create dto.WalletCreate) error {
	w := Wallet{
		ID:      create.ID,
		UserID:  create.UserID,
		Balance: create.Balance,
		IsDemo:  create.IsDemo,
	}
	return mapWalletErr(r.db.WithContext(ctx).Create(&w).Error)
}

// Get implements repository.WalletRepository.
func (r *walletRepository) Get(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error) {
	var w Wallet
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, mapWalletErr(err)
	}
	return mapWalletToReadDTO(&w), nil
}

// GetByUser implements repository.WalletRepository.
func (r *walletRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	var w Wallet
	if err := r.db.WithContext(ctx).First(&w, "user_id = ?", userID).Error; err != nil {
		return nil, mapWalletErr(err)
	}
	return mapWalletToReadDTO(&w), nil
}

// ApplyDelta implements repository.WalletRepository. The guard in the WHERE
// clause keeps the update a single read-modify-write that can never drive the
// balance negative.
func (r *walletRepository) ApplyDelta(
	ctx context.Context,
	id uuid.UUID,
	delta int64,
) (*dto.WalletRead, error) {
	res := r.db.WithContext(ctx).
		Model(&Wallet{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return nil, mapWalletErr(res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows is either a missing wallet or a would-be-negative balance.
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientFunds
	}
	return r.Get(ctx, id)
}

func mapWalletToReadDTO(w *Wallet) *dto.WalletRead {
	return &dto.WalletRead{
		ID:        w.ID,
		UserID:    w.UserID,
		Balance:   w.Balance,
		IsDemo:    w.IsDemo,
		UpdatedAt: w.UpdatedAt,
	}
}
