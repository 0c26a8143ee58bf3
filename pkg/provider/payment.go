// Package provider defines the outbound payment-rail contract. All amounts
// crossing this boundary are in kobo, the rail's minor currency unit; coin
// conversion happens before calls reach a PaymentGateway.
package provider

import (
	"context"
	"encoding/json"
)

// InitializeParams starts a hosted payment for a deposit.
type InitializeParams struct {
	AmountKobo  int64
	Email       string
	Reference   string
	CallbackURL string
}

// InitializeResult is the redirect handle for a started payment.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the rail's view of a payment, fetched synchronously.
type VerifyResult struct {
	Status     string
	AmountKobo int64
	Reference  string
	Raw        json.RawMessage
}

// TransferParams initiates a payout to a previously created recipient.
type TransferParams struct {
	RecipientCode string
	AmountKobo    int64
	Reason        string
	Reference     string
}

// PaymentGateway is the outbound client for the payment rail.
type PaymentGateway interface {
	// Initialize starts a hosted payment and returns the redirect URL.
	Initialize(ctx context.Context, params InitializeParams) (*InitializeResult, error)

	// Verify fetches the rail's status for a reference.
	Verify(ctx context.Context, reference string) (*VerifyResult, error)

	// CreateTransferRecipient registers a payout destination and returns its
	// recipient code.
	CreateTransferRecipient(ctx context.Context, accountNumber, bankCode, name string) (string, error)

	// InitiateTransfer starts a payout and returns the rail's transfer status.
	InitiateTransfer(ctx context.Context, params TransferParams) (string, error)
}
