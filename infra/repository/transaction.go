package repository

import (
	"context"

	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	repo "github.com/chessstake/wallet/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the GORM-backed ledger store.
func NewTransactionRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create implements repository.TransactionRepository.
func (r *transactionRepository) Create(
	ctx context.Context,
	create dto.TransactionCreate,
) error {
	tx := mapCreateDTOToModel(create)
	return mapTransactionErr(r.db.WithContext(ctx).Create(&tx).Error)
}

// Get implements repository.TransactionRepository.
func (r *transactionRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var tx Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, mapTransactionErr(err)
	}
	return mapModelToReadDTO(&tx), nil
}

// GetByReference implements repository.TransactionRepository. When a failed
// row shares the reference with a live retry, the live row wins.
func (r *transactionRepository) GetByReference(
	ctx context.Context,
	reference string,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("status = 'failed', created_at DESC").
		First(&tx).Error
	if err != nil {
		return nil, mapTransactionErr(err)
	}
	return mapModelToReadDTO(&tx), nil
}

// TryClaim implements repository.TransactionRepository. The WHERE clause on
// the current status makes this a single atomic compare-and-swap at the
// storage layer; RowsAffected tells us whether this caller won.
func (r *transactionRepository) TryClaim(
	ctx context.Context,
	id uuid.UUID,
	fromStatus, toStatus string,
) (bool, error) {
	if !domain.TransactionStatus(fromStatus).CanTransitionTo(domain.TransactionStatus(toStatus)) {
		return false, gorm.ErrInvalidData
	}
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return false, mapTransactionErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SetStatus implements repository.TransactionRepository.
func (r *transactionRepository) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) error {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return mapTransactionErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Update implements repository.TransactionRepository.
func (r *transactionRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.TransactionUpdate,
) error {
	updates := map[string]any{}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Reference != nil {
		updates["reference"] = *update.Reference
	}
	if update.Payout != nil {
		p := PayoutJSON(*update.Payout)
		updates["payout"] = &p
	}
	if len(updates) == 0 {
		return nil
	}
	return mapTransactionErr(r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error)
}

// ListByWallet implements repository.TransactionRepository.
func (r *transactionRepository) ListByWallet(
	ctx context.Context,
	walletID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	var txs []Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, mapTransactionErr(err)
	}
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToReadDTO(&txs[i]))
	}
	return result, nil
}

func mapCreateDTOToModel(create dto.TransactionCreate) Transaction {
	tx := Transaction{
		ID:        create.ID,
		WalletID:  create.WalletID,
		Kind:      create.Kind,
		Amount:    create.Amount,
		Status:    create.Status,
		Reference: create.Reference,
	}
	if create.Payout != nil {
		p := PayoutJSON(*create.Payout)
		tx.Payout = &p
	}
	return tx
}

func mapModelToReadDTO(tx *Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:        tx.ID,
		WalletID:  tx.WalletID,
		Kind:      tx.Kind,
		Amount:    tx.Amount,
		Status:    tx.Status,
		Reference: tx.Reference,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
	if tx.Payout != nil {
		p := domain.PayoutDetails(*tx.Payout)
		read.Payout = &p
	}
	return read
}
