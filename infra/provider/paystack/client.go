// Package paystack is the Paystack implementation of the payment gateway:
// hosted payment initialization, synchronous verification, transfer
// recipients and payouts, plus webhook signature verification.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chessstake/wallet/pkg/config"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/provider"
)

// Client implements provider.PaymentGateway against the Paystack REST API.
type Client struct {
	cfg    *config.Paystack
	http   *http.Client
	logger *slog.Logger
}

// New creates a Client with the given config and logger. The HTTP timeout
// bounds every rail call.
func New(cfg *config.Paystack, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger,
	}
}

// Initialize implements provider.PaymentGateway.
func (c *Client) Initialize(
	ctx context.Context,
	params provider.InitializeParams,
) (*provider.InitializeResult, error) {
	log := c.logger.With("handler", "paystack.Initialize", "reference", params.Reference)

	payload := map[string]any{
		"email":        params.Email,
		"amount":       params.AmountKobo,
		"reference":    params.Reference,
		"callback_url": params.CallbackURL,
	}
	var data initializeData
	if err := c.post(ctx, "/transaction/initialize", payload, &data); err != nil {
		log.Error("failed to initialize payment", "error", err)
		return nil, err
	}
	log.Info("payment initialized", "access_code", data.AccessCode)
	return &provider.InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify implements provider.PaymentGateway.
func (c *Client) Verify(
	ctx context.Context,
	reference string,
) (*provider.VerifyResult, error) {
	log := c.logger.With("handler", "paystack.Verify", "reference", reference)

	raw, err := c.get(ctx, "/transaction/verify/"+reference)
	if err != nil {
		log.Error("failed to verify payment", "error", err)
		return nil, err
	}
	var data verifyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	log.Info("payment verified", "status", data.Status, "amount_kobo", data.Amount)
	return &provider.VerifyResult{
		Status:     data.Status,
		AmountKobo: data.Amount,
		Reference:  data.Reference,
		Raw:        raw,
	}, nil
}

// CreateTransferRecipient implements provider.PaymentGateway.
func (c *Client) CreateTransferRecipient(
	ctx context.Context,
	accountNumber, bankCode, name string,
) (string, error) {
	payload := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}
	var data recipientData
	if err := c.post(ctx, "/transferrecipient", payload, &data); err != nil {
		c.logger.Error("failed to create transfer recipient", "error", err)
		return "", err
	}
	return data.RecipientCode, nil
}

// InitiateTransfer implements provider.PaymentGateway.
func (c *Client) InitiateTransfer(
	ctx context.Context,
	params provider.TransferParams,
) (string, error) {
	payload := map[string]any{
		"source":    "balance",
		"amount":    params.AmountKobo,
		"recipient": params.RecipientCode,
		"reason":    params.Reason,
		"reference": params.Reference,
	}
	var data transferData
	if err := c.post(ctx, "/transfer", payload, &data); err != nil {
		c.logger.Error("failed to initiate transfer", "error", err)
		return "", err
	}
	return data.Status, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseUrl+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseUrl+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// do executes the request and unwraps Paystack's response envelope.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: gateway returned %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("gateway rejected request: %s", envelope.Message)
	}
	return envelope.Data, nil
}
