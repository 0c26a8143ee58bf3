// Package reconcile turns external payment-status events into exactly-once
// wallet mutations.
//
// Events arrive from two racing sources: webhook pushes from the rail and
// client-triggered verification pulls. Both funnel into Service.Reconcile,
// which is order-independent and safe under at-least-once delivery: the
// ledger row's conditional status claim is the sole mutual-exclusion
// primitive, and the claim, the balance delta and the completion write share
// one unit-of-work transaction so they commit or roll back together.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	"github.com/chessstake/wallet/pkg/repository"
	"github.com/google/uuid"
)

// Event is a payment-status notification normalized to coin units. AmountHint
// is advisory; the ledger row stays authoritative for the delta.
type Event struct {
	Reference      string
	ExternalStatus string
	Succeeded      bool
	AmountHint     currency.Amount
	Source         string
}

// Result reports what a reconcile call did.
type Result struct {
	TransactionID  uuid.UUID
	Status         domain.TransactionStatus
	Applied        bool // this call performed the balance mutation
	AlreadySettled bool // duplicate delivery of a settled event; no-op
}

// Service is the reconciliation engine. It holds no mutable state of its own;
// all coordination goes through the ledger store's conditional update.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates the reconciliation engine.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Reconcile resolves the event's transaction and advances it through the
// state machine, applying the wallet delta exactly once. Duplicate deliveries
// of a settled event return an AlreadySettled no-op; a genuine race with
// another in-flight reconciliation returns domain.ErrConcurrentlyProcessing.
func (s *Service) Reconcile(ctx context.Context, event Event) (*Result, error) {
	log := s.logger.With(
		"handler", "reconcile.Reconcile",
		"reference", event.Reference,
		"external_status", event.ExternalStatus,
		"source", event.Source,
	)

	var result *Result
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		walletRepo, err := uow.WalletRepository()
		if err != nil {
			return err
		}

		tx, err := txRepo.GetByReference(ctx, event.Reference)
		if err != nil {
			if errors.Is(err, domain.ErrTransactionNotFound) {
				log.Warn("event for unknown reference, dropping")
				return fmt.Errorf("%w: %q", domain.ErrUnknownReference, event.Reference)
			}
			return err
		}
		log = log.With("transaction_id", tx.ID, "kind", tx.Kind)

		if event.AmountHint > 0 && event.AmountHint != tx.Amount {
			log.Warn("event amount differs from ledger amount, trusting ledger",
				"hint", event.AmountHint, "ledger", tx.Amount)
		}

		if !event.Succeeded {
			result, err = s.settleFailure(ctx, log, txRepo, walletRepo, tx)
			return err
		}

		switch domain.TransactionKind(tx.Kind) {
		case domain.KindDeposit:
			result, err = s.settleDeposit(ctx, log, txRepo, walletRepo, tx)
		case domain.KindWithdrawal:
			result, err = s.settleWithdrawal(ctx, log, txRepo, tx)
		default:
			err = fmt.Errorf("unknown transaction kind %q", tx.Kind)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settleDeposit claims pending -> processing, credits the wallet, then marks
// the row completed. Losing the claim means another reconciler got there
// first; the loser resolves to a no-op or a transient race error.
func (s *Service) settleDeposit(
	ctx context.Context,
	log *slog.Logger,
	txRepo repository.TransactionRepository,
	walletRepo repository.WalletRepository,
	tx *dto.TransactionRead,
) (*Result, error) {
	claimed, err := txRepo.TryClaim(ctx, tx.ID,
		string(domain.StatusPending), string(domain.StatusProcessing))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.resolveLostClaim(ctx, log, txRepo, tx.ID)
	}

	// This caller, and only this caller, applies the balance effect. A
	// failure below rolls the claim back with the enclosing transaction so a
	// future event can retry.
	if _, err := walletRepo.ApplyDelta(ctx, tx.WalletID, tx.Amount); err != nil {
		log.Error("failed to credit wallet, reverting claim", "error", err)
		return nil, err
	}
	if err := txRepo.SetStatus(ctx, tx.ID, string(domain.StatusCompleted)); err != nil {
		log.Error("failed to complete transaction, reverting", "error", err)
		return nil, err
	}
	log.Info("deposit reconciled", "amount", tx.Amount)
	return &Result{
		TransactionID: tx.ID,
		Status:        domain.StatusCompleted,
		Applied:       true,
	}, nil
}

// settleWithdrawal confirms a payout the gateway already accepted; the debit
// happened at initiation, so only status progresses here.
func (s *Service) settleWithdrawal(
	ctx context.Context,
	log *slog.Logger,
	txRepo repository.TransactionRepository,
	tx *dto.TransactionRead,
) (*Result, error) {
	claimed, err := txRepo.TryClaim(ctx, tx.ID,
		string(domain.StatusProcessing), string(domain.StatusCompleted))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.resolveLostClaim(ctx, log, txRepo, tx.ID)
	}
	log.Info("withdrawal confirmed")
	return &Result{
		TransactionID: tx.ID,
		Status:        domain.StatusCompleted,
	}, nil
}

// settleFailure terminally fails the transaction. A failed withdrawal had its
// debit applied at initiation, so the claim winner refunds it in the same
// unit of work.
func (s *Service) settleFailure(
	ctx context.Context,
	log *slog.Logger,
	txRepo repository.TransactionRepository,
	walletRepo repository.WalletRepository,
	tx *dto.TransactionRead,
) (*Result, error) {
	fromStatus := domain.StatusPending
	if domain.TransactionKind(tx.Kind) == domain.KindWithdrawal {
		fromStatus = domain.StatusProcessing
	}
	claimed, err := txRepo.TryClaim(ctx, tx.ID,
		string(fromStatus), string(domain.StatusFailed))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.resolveLostClaim(ctx, log, txRepo, tx.ID)
	}

	result := &Result{TransactionID: tx.ID, Status: domain.StatusFailed}
	if domain.TransactionKind(tx.Kind) == domain.KindWithdrawal {
		if _, err := walletRepo.ApplyDelta(ctx, tx.WalletID, tx.Amount); err != nil {
			log.Error("failed to refund failed withdrawal", "error", err)
			return nil, err
		}
		result.Applied = true
	}
	log.Info("transaction marked failed")
	return result, nil
}

// resolveLostClaim reads the row a lost claim left behind. A terminal status
// is a duplicate delivery and resolves as a no-op success; anything else is a
// genuine race with an in-flight reconciliation.
func (s *Service) resolveLostClaim(
	ctx context.Context,
	log *slog.Logger,
	txRepo repository.TransactionRepository,
	id uuid.UUID,
) (*Result, error) {
	current, err := txRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status := domain.TransactionStatus(current.Status)
	if status.Terminal() {
		log.Info("duplicate delivery for settled transaction", "status", status)
		return &Result{
			TransactionID:  id,
			Status:         status,
			AlreadySettled: true,
		}, nil
	}
	log.Info("transaction is being handled by another caller", "status", status)
	return nil, fmt.Errorf("%w: transaction %s", domain.ErrConcurrentlyProcessing, id)
}
