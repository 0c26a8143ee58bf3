// Package app assembles services from their injected dependencies. The
// engine holds no process-wide mutable state; everything shared lives behind
// the stores.
package app

import (
	"log/slog"

	"github.com/chessstake/wallet/pkg/config"
	"github.com/chessstake/wallet/pkg/currency"
	"github.com/chessstake/wallet/pkg/provider"
	"github.com/chessstake/wallet/pkg/repository"
	"github.com/chessstake/wallet/pkg/service/reconcile"
	"github.com/chessstake/wallet/pkg/service/wallet"
)

// Deps contains the infrastructure handles the services are built from.
type Deps struct {
	Uow       repository.UnitOfWork
	Gateway   provider.PaymentGateway
	Converter currency.Converter
	Logger    *slog.Logger
}

// App is the assembled application.
type App struct {
	Deps             *Deps
	Config           *config.App
	WalletService    *wallet.Service
	ReconcileService *reconcile.Service
}

// New wires the services.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:   deps,
		Config: cfg,
		WalletService: wallet.New(
			deps.Uow,
			deps.Gateway,
			deps.Converter,
			cfg.Rate,
			cfg.Paystack.CallbackUrl,
			deps.Logger,
		),
		ReconcileService: reconcile.New(deps.Uow, deps.Logger),
	}
}
