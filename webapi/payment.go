package webapi

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/chessstake/wallet/infra/provider/paystack"
	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/domain"
	"github.com/chessstake/wallet/pkg/provider"
	"github.com/chessstake/wallet/pkg/service/reconcile"
	"github.com/gofiber/fiber/v2"
)

// VerifyRequest is the poller's reconciliation trigger.
type VerifyRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// PaymentRoutes registers the webhook and verification endpoints.
func PaymentRoutes(
	app *fiber.App,
	reconciler *reconcile.Service,
	gateway provider.PaymentGateway,
	converter currency.Converter,
	webhookSecret string,
	logger *slog.Logger,
) {
	app.Post("/paystack/webhook", PaystackWebhookHandler(reconciler, converter, webhookSecret, logger))
	app.Post("/paystack/verify", PaystackVerifyHandler(reconciler, gateway, converter, logger))
}

// PaystackWebhookHandler handles rail push notifications. The signature is
// checked over the raw body before anything touches the ledger; a missing
// signature is rejected, never passed through.
func PaystackWebhookHandler(
	reconciler *reconcile.Service,
	converter currency.Converter,
	secret string,
	logger *slog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		signature := c.Get(paystack.SignatureHeader)
		if !paystack.VerifySignature(body, signature, secret) {
			logger.Warn("rejecting unauthenticated webhook",
				"signature_present", signature != "")
			return ErrorResponseJSON(c, fiber.StatusForbidden,
				"Forbidden", domain.ErrAuthenticationFailed.Error())
		}

		var event paystack.WebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest,
				"Bad Request", "invalid webhook payload")
		}

		var succeeded bool
		switch event.Event {
		case "charge.success":
			succeeded = event.Data.Status == "success"
		case "transfer.success":
			succeeded = true
		case "transfer.failed", "transfer.reversed":
			succeeded = false
		default:
			logger.Info("ignoring webhook event", "event", event.Event)
			return c.SendStatus(fiber.StatusOK)
		}

		result, err := reconciler.Reconcile(c.Context(), reconcile.Event{
			Reference:      event.Data.Reference,
			ExternalStatus: event.Data.Status,
			Succeeded:      succeeded,
			AmountHint:     converter.CoinsFromKobo(event.Data.Amount),
			Source:         "webhook",
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnknownReference):
				// Stale or foreign event; acknowledge so the rail stops
				// retrying.
				logger.Warn("webhook for unknown reference", "reference", event.Data.Reference)
				return c.SendStatus(fiber.StatusOK)
			case errors.Is(err, domain.ErrConcurrentlyProcessing):
				// The racing caller will finish the job.
				return c.SendStatus(fiber.StatusOK)
			default:
				logger.Error("webhook reconciliation failed",
					"reference", event.Data.Reference, "error", err)
				return ErrorResponseJSON(c, fiber.StatusInternalServerError,
					"Internal Server Error", err.Error())
			}
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Event processed", fiber.Map{
			"transaction_id":  result.TransactionID,
			"status":          result.Status,
			"already_settled": result.AlreadySettled,
		})
	}
}

// PaystackVerifyHandler is the poller's pull path: fetch the rail's status
// for a reference and run the same reconciliation the webhook would.
func PaystackVerifyHandler(
	reconciler *reconcile.Service,
	gateway provider.PaymentGateway,
	converter currency.Converter,
	logger *slog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[VerifyRequest](c)
		if err != nil {
			return nil
		}

		verification, err := gateway.Verify(c.Context(), req.Reference)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err),
				"Verification failed", err.Error())
		}

		var succeeded bool
		switch verification.Status {
		case "success":
			succeeded = true
		case "failed", "reversed":
			succeeded = false
		default:
			// Still in flight on the rail; nothing to reconcile yet. The
			// poller will try again on its own schedule.
			return SuccessResponseJSON(c, fiber.StatusOK, "Payment not settled yet", fiber.Map{
				"reference":   req.Reference,
				"rail_status": verification.Status,
			})
		}

		result, err := reconciler.Reconcile(c.Context(), reconcile.Event{
			Reference:      req.Reference,
			ExternalStatus: verification.Status,
			Succeeded:      succeeded,
			AmountHint:     converter.CoinsFromKobo(verification.AmountKobo),
			Source:         "verify",
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err),
				"Reconciliation failed", err.Error())
		}
		logger.Info("verification reconciled",
			"reference", req.Reference, "status", result.Status)
		return SuccessResponseJSON(c, fiber.StatusOK, "Verification processed", fiber.Map{
			"transaction_id":  result.TransactionID,
			"status":          result.Status,
			"already_settled": result.AlreadySettled,
		})
	}
}
