// Package fakes provides in-memory doubles for the stores and the payment
// gateway. The ledger fake honors the same claim semantics as the GORM
// implementation so engine tests exercise real mutual exclusion.
package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	"github.com/chessstake/wallet/pkg/provider"
	"github.com/chessstake/wallet/pkg/repository"
	"github.com/google/uuid"
)

var errWalletExists = errors.New("wallet already exists for user")

// Store is an in-memory ledger and wallet store.
type Store struct {
	mu           sync.Mutex
	doMu         sync.Mutex
	transactions map[uuid.UUID]dto.TransactionRead
	wallets      map[uuid.UUID]dto.WalletRead

	// DeltaErr, when set, is returned by the next ApplyDelta call.
	DeltaErr error
	// LedgerReads counts ledger read operations.
	LedgerReads atomic.Int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[uuid.UUID]dto.TransactionRead),
		wallets:      make(map[uuid.UUID]dto.WalletRead),
	}
}

// SeedWallet inserts a wallet and returns it.
func (s *Store) SeedWallet(userID uuid.UUID, balance int64, isDemo bool) dto.WalletRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := dto.WalletRead{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   balance,
		IsDemo:    isDemo,
		UpdatedAt: time.Now(),
	}
	s.wallets[w.ID] = w
	return w
}

// SeedTransaction inserts a ledger row and returns it.
func (s *Store) SeedTransaction(
	walletID uuid.UUID,
	kind domain.TransactionKind,
	amount int64,
	status domain.TransactionStatus,
	reference string,
) dto.TransactionRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := dto.TransactionRead{
		ID:        uuid.New(),
		WalletID:  walletID,
		Kind:      string(kind),
		Amount:    amount,
		Status:    string(status),
		Reference: reference,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.transactions[tx.ID] = tx
	return tx
}

// Transaction returns a copy of a ledger row.
func (s *Store) Transaction(id uuid.UUID) dto.TransactionRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[id]
}

// Wallet returns a copy of a wallet row.
func (s *Store) Wallet(id uuid.UUID) dto.WalletRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id]
}

func (s *Store) snapshot() (map[uuid.UUID]dto.TransactionRead, map[uuid.UUID]dto.WalletRead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make(map[uuid.UUID]dto.TransactionRead, len(s.transactions))
	for k, v := range s.transactions {
		txs[k] = v
	}
	ws := make(map[uuid.UUID]dto.WalletRead, len(s.wallets))
	for k, v := range s.wallets {
		ws[k] = v
	}
	return txs, ws
}

func (s *Store) restore(txs map[uuid.UUID]dto.TransactionRead, ws map[uuid.UUID]dto.WalletRead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = txs
	s.wallets = ws
}

// UoW is the unit-of-work double. Do serializes transaction boundaries and
// restores the store when fn fails, mirroring a rollback.
type UoW struct {
	S *Store
}

// NewUoW creates a UoW over the store.
func NewUoW(s *Store) *UoW { return &UoW{S: s} }

// Do implements repository.UnitOfWork.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.S.doMu.Lock()
	defer u.S.doMu.Unlock()
	txs, ws := u.S.snapshot()
	if err := fn(u); err != nil {
		u.S.restore(txs, ws)
		return err
	}
	return nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &txRepo{s: u.S}, nil
}

// WalletRepository implements repository.UnitOfWork.
func (u *UoW) WalletRepository() (repository.WalletRepository, error) {
	return &walletRepo{s: u.S}, nil
}

type txRepo struct {
	s *Store
}

func (r *txRepo) Create(ctx context.Context, create dto.TransactionCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if create.Reference != "" {
		for _, tx := range r.s.transactions {
			if tx.Reference == create.Reference && tx.Status != string(domain.StatusFailed) {
				return domain.ErrDuplicateReference
			}
		}
	}
	r.s.transactions[create.ID] = dto.TransactionRead{
		ID:        create.ID,
		WalletID:  create.WalletID,
		Kind:      create.Kind,
		Amount:    create.Amount,
		Status:    create.Status,
		Reference: create.Reference,
		Payout:    create.Payout,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *txRepo) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	r.s.LedgerReads.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *txRepo) GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	r.s.LedgerReads.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *dto.TransactionRead
	for _, tx := range r.s.transactions {
		if tx.Reference != reference {
			continue
		}
		tx := tx
		if tx.Status != string(domain.StatusFailed) {
			return &tx, nil
		}
		found = &tx
	}
	if found == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return found, nil
}

func (r *txRepo) TryClaim(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok || tx.Status != fromStatus {
		return false, nil
	}
	tx.Status = toStatus
	tx.UpdatedAt = time.Now()
	r.s.transactions[id] = tx
	return true, nil
}

func (r *txRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	tx.Status = status
	tx.UpdatedAt = time.Now()
	r.s.transactions[id] = tx
	return nil
}

func (r *txRepo) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if update.Status != nil {
		tx.Status = *update.Status
	}
	if update.Reference != nil {
		tx.Reference = *update.Reference
	}
	if update.Payout != nil {
		p := *update.Payout
		tx.Payout = &p
	}
	tx.UpdatedAt = time.Now()
	r.s.transactions[id] = tx
	return nil
}

func (r *txRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*dto.TransactionRead, error) {
	r.s.LedgerReads.Add(1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var txs []*dto.TransactionRead
	for _, tx := range r.s.transactions {
		if tx.WalletID == walletID {
			tx := tx
			txs = append(txs, &tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	return txs, nil
}

type walletRepo struct {
	s *Store
}

func (r *walletRepo) Create(ctx context.Context, create dto.WalletCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.wallets {
		if w.UserID == create.UserID {
			return errWalletExists
		}
	}
	r.s.wallets[create.ID] = dto.WalletRead{
		ID:        create.ID,
		UserID:    create.UserID,
		Balance:   create.Balance,
		IsDemo:    create.IsDemo,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *walletRepo) Get(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (r *walletRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			w := w
			return &w, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (r *walletRepo) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*dto.WalletRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.DeltaErr; err != nil {
		r.s.DeltaErr = nil
		return nil, err
	}
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if w.Balance+delta < 0 {
		return nil, domain.ErrInsufficientFunds
	}
	w.Balance += delta
	w.UpdatedAt = time.Now()
	r.s.wallets[id] = w
	return &w, nil
}

// Gateway is a scripted payment-gateway double recording every call.
type Gateway struct {
	mu    sync.Mutex
	calls []string

	InitResult     *provider.InitializeResult
	InitErr        error
	VerifyResult   *provider.VerifyResult
	VerifyErr      error
	RecipientCode  string
	RecipientErr   error
	TransferStatus string
	TransferErr    error
}

// Calls returns the method names invoked so far.
func (g *Gateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *Gateway) record(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, name)
}

// Initialize implements provider.PaymentGateway.
func (g *Gateway) Initialize(ctx context.Context, params provider.InitializeParams) (*provider.InitializeResult, error) {
	g.record("Initialize")
	if g.InitErr != nil {
		return nil, g.InitErr
	}
	if g.InitResult != nil {
		return g.InitResult, nil
	}
	return &provider.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/fake",
		AccessCode:       "fake_access",
		Reference:        params.Reference,
	}, nil
}

// Verify implements provider.PaymentGateway.
func (g *Gateway) Verify(ctx context.Context, reference string) (*provider.VerifyResult, error) {
	g.record("Verify")
	if g.VerifyErr != nil {
		return nil, g.VerifyErr
	}
	if g.VerifyResult != nil {
		return g.VerifyResult, nil
	}
	return &provider.VerifyResult{Status: "success", Reference: reference}, nil
}

// CreateTransferRecipient implements provider.PaymentGateway.
func (g *Gateway) CreateTransferRecipient(ctx context.Context, accountNumber, bankCode, name string) (string, error) {
	g.record("CreateTransferRecipient")
	if g.RecipientErr != nil {
		return "", g.RecipientErr
	}
	if g.RecipientCode != "" {
		return g.RecipientCode, nil
	}
	return "RCP_fake", nil
}

// InitiateTransfer implements provider.PaymentGateway.
func (g *Gateway) InitiateTransfer(ctx context.Context, params provider.TransferParams) (string, error) {
	g.record("InitiateTransfer")
	if g.TransferErr != nil {
		return "", g.TransferErr
	}
	if g.TransferStatus != "" {
		return g.TransferStatus, nil
	}
	return "pending", nil
}
