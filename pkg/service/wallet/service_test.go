package wallet_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/chessstake/wallet/internal/fixtures/fakes"
	"github.com/chessstake/wallet/pkg/config"
	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/service/wallet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fakes.Store, *fakes.Gateway, *wallet.Service) {
	t.Helper()
	store := fakes.NewStore()
	gateway := &fakes.Gateway{}
	converter, err := currency.NewConverter(1000)
	require.NoError(t, err)
	rate := config.Rate{NairaPerCoin: 1000, MinDepositNaira: 1000, MinWithdrawalNaira: 1000}
	svc := wallet.New(fakes.NewUoW(store), gateway, converter, rate,
		"https://app.example.com/wallet", slog.Default())
	return store, gateway, svc
}

func validPayout() domain.PayoutDetails {
	return domain.PayoutDetails{
		AccountNumber: "0123456789",
		BankCode:      "058",
		AccountName:   "Ada Lovelace",
	}
}

func TestDeposit_BelowMinimumRejected(t *testing.T) {
	_, gateway, svc := setup(t)

	_, err := svc.Deposit(context.Background(), wallet.DepositCommand{
		UserID:      uuid.New(),
		Email:       "ada@example.com",
		AmountNaira: 999,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Empty(t, gateway.Calls(), "gateway must not be contacted for invalid amounts")
}

func TestDeposit_CreatesPendingRowAndReturnsCheckoutURL(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()

	result, err := svc.Deposit(context.Background(), wallet.DepositCommand{
		UserID:      userID,
		Email:       "ada@example.com",
		AmountNaira: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/fake", result.AuthorizationURL)
	assert.NotEmpty(t, result.Reference)
	assert.Equal(t, string(domain.StatusPending), result.Transaction.Status)
	// 5000 naira at 1000 naira/coin is 5 coins, stored as centicoins.
	assert.Equal(t, int64(500), result.Transaction.Amount)
	assert.Equal(t, []string{"Initialize"}, gateway.Calls())

	// Wallet was lazily created and the balance stays zero until reconciled.
	w, err := svc.GetWallet(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
	assert.Equal(t, w.ID, store.Transaction(result.Transaction.ID).WalletID)
}

func TestDeposit_ReusesExistingWallet(t *testing.T) {
	store, _, svc := setup(t)
	userID := uuid.New()
	seeded := store.SeedWallet(userID, 12345, false)

	result, err := svc.Deposit(context.Background(), wallet.DepositCommand{
		UserID:      userID,
		Email:       "ada@example.com",
		AmountNaira: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, result.Transaction.WalletID)
	assert.Equal(t, int64(12345), store.Wallet(seeded.ID).Balance)
}

func TestDeposit_GatewayFailureFailsTheRow(t *testing.T) {
	_, gateway, svc := setup(t)
	gateway.InitErr = domain.ErrGatewayUnavailable
	userID := uuid.New()

	_, err := svc.Deposit(context.Background(), wallet.DepositCommand{
		UserID:      userID,
		Email:       "ada@example.com",
		AmountNaira: 5000,
	})
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)

	// The row is failed so its reference no longer blocks a retry.
	txs, err := svc.ListTransactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, string(domain.StatusFailed), txs[0].Status)

	gateway.InitErr = nil
	_, err = svc.Deposit(context.Background(), wallet.DepositCommand{
		UserID:      userID,
		Email:       "ada@example.com",
		AmountNaira: 5000,
	})
	require.NoError(t, err)
}

func TestWithdraw_InsufficientFundsRejectedBeforeGateway(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	store.SeedWallet(userID, 100, false)

	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, gateway.Calls(), "gateway must not be contacted when the balance cannot cover the payout")
}

func TestWithdraw_DebitsAndLeavesRowProcessing(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	w := store.SeedWallet(userID, 1000, false)

	tx, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusProcessing), tx.Status)
	assert.NotEmpty(t, tx.Reference)
	require.NotNil(t, tx.Payout)
	assert.Equal(t, "RCP_fake", tx.Payout.RecipientCode)
	assert.Equal(t, int64(500), store.Wallet(w.ID).Balance)
	assert.Equal(t, []string{"CreateTransferRecipient", "InitiateTransfer"}, gateway.Calls())
}

func TestWithdraw_RecipientRejectionLeavesBalanceUntouched(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	w := store.SeedWallet(userID, 1000, false)
	gateway.RecipientErr = domain.ErrGatewayUnavailable

	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Equal(t, int64(1000), store.Wallet(w.ID).Balance)
}

func TestWithdraw_TransferRejectionLeavesBalanceUntouched(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	w := store.SeedWallet(userID, 1000, false)
	gateway.TransferErr = domain.ErrGatewayUnavailable

	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Equal(t, int64(1000), store.Wallet(w.ID).Balance)
}

func TestWithdraw_DemoWalletRefused(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	store.SeedWallet(userID, 100000, true)

	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.ErrorIs(t, err, domain.ErrDemoWallet)
	assert.Empty(t, gateway.Calls())
}

func TestWithdraw_InvalidPayoutDetailsRejected(t *testing.T) {
	store, gateway, svc := setup(t)
	userID := uuid.New()
	store.SeedWallet(userID, 100000, false)

	payout := validPayout()
	payout.AccountNumber = "12345" // not 10 digits
	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      userID,
		AmountNaira: 5000,
		Payout:      payout,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPayoutDetails)
	assert.Empty(t, gateway.Calls())
}

func TestWithdraw_NoWalletReturnsNotFound(t *testing.T) {
	_, _, svc := setup(t)

	_, err := svc.Withdraw(context.Background(), wallet.WithdrawCommand{
		UserID:      uuid.New(),
		AmountNaira: 5000,
		Payout:      validPayout(),
	})
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestEnsureWallet_Idempotent(t *testing.T) {
	_, _, svc := setup(t)
	userID := uuid.New()

	first, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestListTransactions_NewestFirst(t *testing.T) {
	store, _, svc := setup(t)
	userID := uuid.New()
	w := store.SeedWallet(userID, 0, false)
	store.SeedTransaction(w.ID, domain.KindDeposit, 100, domain.StatusCompleted, "older")
	store.SeedTransaction(w.ID, domain.KindDeposit, 200, domain.StatusPending, "newer")

	txs, err := svc.ListTransactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.False(t, txs[1].CreatedAt.After(txs[0].CreatedAt))
}
