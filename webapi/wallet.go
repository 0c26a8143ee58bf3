package webapi

import (
	"time"

	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/dto"
	"github.com/chessstake/wallet/pkg/service/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DepositRequest initiates a deposit; the amount is what the user pays on the
// rail, in naira.
type DepositRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	AmountNaira int64     `json:"amount_naira" validate:"required,gt=0"`
}

// WithdrawRequest initiates a payout to a bank account.
type WithdrawRequest struct {
	UserID        uuid.UUID `json:"user_id" validate:"required"`
	AmountNaira   int64     `json:"amount_naira" validate:"required,gt=0"`
	AccountNumber string    `json:"account_number" validate:"required"`
	BankCode      string    `json:"bank_code" validate:"required"`
	AccountName   string    `json:"account_name" validate:"required"`
}

// WalletResponse renders a wallet with its balance in coins.
type WalletResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   float64   `json:"balance"`
	IsDemo    bool      `json:"is_demo"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse renders a ledger row with its amount in coins.
type TransactionResponse struct {
	ID        uuid.UUID             `json:"id"`
	WalletID  uuid.UUID             `json:"wallet_id"`
	Kind      string                `json:"type"`
	Amount    float64               `json:"amount"`
	Status    string                `json:"status"`
	Reference string                `json:"reference,omitempty"`
	Payout    *domain.PayoutDetails `json:"payout_details,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// WalletRoutes registers the wallet endpoints.
func WalletRoutes(app *fiber.App, svc *wallet.Service) {
	app.Post("/wallet/deposit", DepositHandler(svc))
	app.Post("/wallet/withdraw", WithdrawHandler(svc))
	app.Get("/wallet/:userId", GetWalletHandler(svc))
	app.Get("/wallet/:userId/transactions", ListTransactionsHandler(svc))
}

// DepositHandler creates a pending deposit and returns the rail's redirect
// URL.
func DepositHandler(svc *wallet.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[DepositRequest](c)
		if err != nil {
			return nil
		}
		result, err := svc.Deposit(c.Context(), wallet.DepositCommand{
			UserID:      req.UserID,
			Email:       req.Email,
			AmountNaira: req.AmountNaira,
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Deposit failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Deposit initiated", fiber.Map{
			"authorization_url": result.AuthorizationURL,
			"reference":         result.Reference,
			"transaction":       toTransactionResponse(result.Transaction),
		})
	}
}

// WithdrawHandler runs the payout initiation sequence.
func WithdrawHandler(svc *wallet.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[WithdrawRequest](c)
		if err != nil {
			return nil
		}
		tx, err := svc.Withdraw(c.Context(), wallet.WithdrawCommand{
			UserID:      req.UserID,
			AmountNaira: req.AmountNaira,
			Payout: domain.PayoutDetails{
				AccountNumber: req.AccountNumber,
				BankCode:      req.BankCode,
				AccountName:   req.AccountName,
			},
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Withdrawal failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal initiated",
			toTransactionResponse(tx))
	}
}

// GetWalletHandler returns the user's wallet.
func GetWalletHandler(svc *wallet.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("userId"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		w, err := svc.GetWallet(c.Context(), userID)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Wallet lookup failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Wallet", toWalletResponse(w))
	}
}

// ListTransactionsHandler returns the user's ledger, newest first.
func ListTransactionsHandler(svc *wallet.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("userId"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		txs, err := svc.ListTransactions(c.Context(), userID)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transaction listing failed", err.Error())
		}
		resp := make([]TransactionResponse, 0, len(txs))
		for _, tx := range txs {
			resp = append(resp, toTransactionResponse(tx))
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions", resp)
	}
}

func toWalletResponse(w *dto.WalletRead) WalletResponse {
	return WalletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Balance:   currency.CoinsFloat(w.Balance),
		IsDemo:    w.IsDemo,
		UpdatedAt: w.UpdatedAt,
	}
}

func toTransactionResponse(tx *dto.TransactionRead) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		WalletID:  tx.WalletID,
		Kind:      tx.Kind,
		Amount:    currency.CoinsFloat(tx.Amount),
		Status:    tx.Status,
		Reference: tx.Reference,
		Payout:    tx.Payout,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}
