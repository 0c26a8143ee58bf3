// Package webapi exposes the wallet and reconciliation engine over HTTP.
package webapi

import (
	"time"

	"github.com/chessstake/wallet/pkg/app"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp builds the Fiber app with middleware and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "Rate limit exceeded")
		},
		// The rail retries webhooks aggressively; never throttle them away.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/paystack/webhook"
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Wallet service is up 🚀")
	})

	WalletRoutes(fiberApp, a.WalletService)
	PaymentRoutes(
		fiberApp,
		a.ReconcileService,
		a.Deps.Gateway,
		a.Deps.Converter,
		a.Config.Paystack.SecretKey,
		a.Deps.Logger,
	)

	return fiberApp
}
