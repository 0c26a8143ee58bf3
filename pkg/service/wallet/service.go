// Package wallet handles deposit and withdrawal initiation plus wallet and
// ledger queries. Initiation paths have a single writer, so unlike the
// reconcile path they need no claim; the withdrawal debit still goes through
// the guarded balance update.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chessstake/wallet/pkg/config"
	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	"github.com/chessstake/wallet/pkg/provider"
	"github.com/chessstake/wallet/pkg/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DepositCommand initiates a hosted payment for a deposit. AmountNaira is
// what the user pays on the rail; the ledger records the coin equivalent.
type DepositCommand struct {
	UserID      uuid.UUID
	Email       string
	AmountNaira int64
}

// DepositResult carries the redirect handle for a started deposit.
type DepositResult struct {
	Transaction      *dto.TransactionRead
	AuthorizationURL string
	Reference        string
}

// WithdrawCommand initiates a payout against the wallet balance.
type WithdrawCommand struct {
	UserID      uuid.UUID
	AmountNaira int64
	Payout      domain.PayoutDetails
}

// Service provides wallet funding operations.
type Service struct {
	uow       repository.UnitOfWork
	gateway   provider.PaymentGateway
	converter currency.Converter
	rate      config.Rate
	callback  string
	validate  *validator.Validate
	logger    *slog.Logger
}

// New creates the wallet service.
func New(
	uow repository.UnitOfWork,
	gateway provider.PaymentGateway,
	converter currency.Converter,
	rate config.Rate,
	callbackURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:       uow,
		gateway:   gateway,
		converter: converter,
		rate:      rate,
		callback:  callbackURL,
		validate:  validator.New(),
		logger:    logger,
	}
}

// EnsureWallet returns the user's wallet, creating it on first funding
// attempt. A racing create loses to the unique user index and re-reads.
func (s *Service) EnsureWallet(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	w, err := repo.GetByUser(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}
	create := dto.WalletCreate{ID: uuid.New(), UserID: userID}
	if err := repo.Create(ctx, create); err != nil {
		if w, getErr := repo.GetByUser(ctx, userID); getErr == nil {
			return w, nil
		}
		return nil, err
	}
	s.logger.Info("wallet created", "user_id", userID, "wallet_id", create.ID)
	return repo.GetByUser(ctx, userID)
}

// GetWallet returns the user's wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetByUser(ctx, userID)
}

// ListTransactions returns the user's ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByWallet(ctx, w.ID)
}

// Deposit creates a pending ledger row and starts a hosted payment. The
// balance is untouched until a verified event reconciles the reference.
func (s *Service) Deposit(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	log := s.logger.With("handler", "wallet.Deposit", "user_id", cmd.UserID)

	if cmd.AmountNaira < s.rate.MinDepositNaira {
		return nil, fmt.Errorf("%w: minimum deposit is %d naira",
			domain.ErrInvalidAmount, s.rate.MinDepositNaira)
	}
	w, err := s.EnsureWallet(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	create := dto.TransactionCreate{
		ID:        uuid.New(),
		WalletID:  w.ID,
		Kind:      string(domain.KindDeposit),
		Amount:    s.converter.CoinsFromNaira(cmd.AmountNaira),
		Status:    string(domain.StatusPending),
		Reference: domain.NewReference(),
	}
	if err := txRepo.Create(ctx, create); err != nil {
		return nil, err
	}
	log = log.With("reference", create.Reference, "transaction_id", create.ID)

	init, err := s.gateway.Initialize(ctx, provider.InitializeParams{
		AmountKobo:  cmd.AmountNaira * 100,
		Email:       cmd.Email,
		Reference:   create.Reference,
		CallbackURL: s.callback,
	})
	if err != nil {
		// Free the reference slot so the user can retry.
		if failErr := txRepo.SetStatus(ctx, create.ID, string(domain.StatusFailed)); failErr != nil {
			log.Error("failed to fail unstarted deposit", "error", failErr)
		}
		return nil, err
	}

	tx, err := txRepo.Get(ctx, create.ID)
	if err != nil {
		return nil, err
	}
	log.Info("deposit initiated", "amount", create.Amount)
	return &DepositResult{
		Transaction:      tx,
		AuthorizationURL: init.AuthorizationURL,
		Reference:        create.Reference,
	}, nil
}

// Withdraw runs the single-writer payout sequence: precheck the balance,
// create the processing row, register the recipient, initiate the transfer,
// then debit. Gateway rejection fails the row without touching the balance.
func (s *Service) Withdraw(ctx context.Context, cmd WithdrawCommand) (*dto.TransactionRead, error) {
	log := s.logger.With("handler", "wallet.Withdraw", "user_id", cmd.UserID)

	if cmd.AmountNaira < s.rate.MinWithdrawalNaira {
		return nil, fmt.Errorf("%w: minimum withdrawal is %d naira",
			domain.ErrInvalidAmount, s.rate.MinWithdrawalNaira)
	}
	if err := s.validate.Struct(cmd.Payout); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayoutDetails, err)
	}

	walletRepo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	w, err := walletRepo.GetByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if w.IsDemo {
		return nil, domain.ErrDemoWallet
	}
	coins := s.converter.CoinsFromNaira(cmd.AmountNaira)
	// Reject before any gateway call; the guarded debit below still protects
	// against a racing spend.
	if coins > w.Balance {
		return nil, domain.ErrInsufficientFunds
	}

	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	payout := cmd.Payout
	create := dto.TransactionCreate{
		ID:       uuid.New(),
		WalletID: w.ID,
		Kind:     string(domain.KindWithdrawal),
		Amount:   coins,
		Status:   string(domain.StatusProcessing),
		Payout:   &payout,
	}
	if err := txRepo.Create(ctx, create); err != nil {
		return nil, err
	}
	log = log.With("transaction_id", create.ID)

	recipientCode, err := s.gateway.CreateTransferRecipient(
		ctx, payout.AccountNumber, payout.BankCode, payout.AccountName)
	if err != nil {
		return nil, s.failPayout(ctx, log, txRepo, create.ID, err)
	}
	// The reference is set only now that a payout is actually initiated, so
	// transfer events can correlate back to this row.
	payout.RecipientCode = recipientCode
	reference := domain.NewReference()
	update := dto.TransactionUpdate{Reference: &reference, Payout: &payout}
	if err := txRepo.Update(ctx, create.ID, update); err != nil {
		return nil, err
	}
	log = log.With("reference", reference)

	if _, err := s.gateway.InitiateTransfer(ctx, provider.TransferParams{
		RecipientCode: recipientCode,
		AmountKobo:    cmd.AmountNaira * 100,
		Reason:        "Withdrawal from ChessStake",
		Reference:     reference,
	}); err != nil {
		return nil, s.failPayout(ctx, log, txRepo, create.ID, err)
	}

	// The gateway accepted the payout; debit now. Confirmation events only
	// progress the status from here.
	if _, err := walletRepo.ApplyDelta(ctx, w.ID, -coins); err != nil {
		log.Error("failed to debit accepted payout", "error", err)
		return nil, s.failPayout(ctx, log, txRepo, create.ID, err)
	}

	tx, err := txRepo.Get(ctx, create.ID)
	if err != nil {
		return nil, err
	}
	log.Info("withdrawal initiated", "amount", coins)
	return tx, nil
}

func (s *Service) failPayout(
	ctx context.Context,
	log *slog.Logger,
	txRepo repository.TransactionRepository,
	id uuid.UUID,
	cause error,
) error {
	if err := txRepo.SetStatus(ctx, id, string(domain.StatusFailed)); err != nil {
		log.Error("failed to mark payout failed", "error", err)
	}
	log.Warn("payout failed", "error", cause)
	return cause
}
