package domain

import "errors"

// Reconciliation and wallet errors.
var (
	// ErrUnknownReference is returned when an event references a transaction
	// that was never created locally. Such events are logged and dropped, not
	// retried.
	ErrUnknownReference = errors.New("unknown transaction reference")
	// ErrConcurrentlyProcessing is returned when another reconciliation of the
	// same transaction is in flight. Transient; the caller should not retry
	// immediately.
	ErrConcurrentlyProcessing = errors.New("transaction is already being processed")
	// ErrGatewayUnavailable is returned when the payment rail cannot be
	// reached or answers with a server error.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInsufficientFunds is returned when a debit would drive a wallet
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAuthenticationFailed is returned when a webhook signature is missing
	// or does not match the request body.
	ErrAuthenticationFailed = errors.New("webhook authentication failed")
	// ErrDuplicateReference is returned when a transaction is created with a
	// reference that already exists among non-failed rows.
	ErrDuplicateReference = errors.New("duplicate transaction reference")
	// ErrTransactionNotFound is returned when a transaction lookup misses.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrWalletNotFound is returned when a wallet lookup misses.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrDemoWallet is returned when a payout is requested against a demo
	// wallet, whose balance never settles real funds.
	ErrDemoWallet = errors.New("demo wallets cannot settle real funds")
	// ErrInvalidPayoutDetails is returned when withdrawal destination details
	// fail validation.
	ErrInvalidPayoutDetails = errors.New("invalid payout details")
	// ErrInvalidAmount is returned when an amount is zero, negative or below
	// the configured minimum.
	ErrInvalidAmount = errors.New("invalid amount")
)
