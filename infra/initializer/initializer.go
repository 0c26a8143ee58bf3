// Package initializer builds the infrastructure dependency graph: logger,
// database, stores and the payment gateway.
package initializer

import (
	"fmt"

	"github.com/chessstake/wallet/infra"
	"github.com/chessstake/wallet/infra/provider/paystack"
	"github.com/chessstake/wallet/infra/repository"
	"github.com/chessstake/wallet/pkg/app"
	"github.com/chessstake/wallet/pkg/config"
	"github.com/chessstake/wallet/pkg/currency"
)

// InitializeDependencies creates every infrastructure handle the application
// services need.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(&cfg.Log)

	converter, err := currency.NewConverter(cfg.Rate.NairaPerCoin)
	if err != nil {
		return nil, fmt.Errorf("invalid rate config: %w", err)
	}

	db, err := infra.NewDatabase(cfg.DB.Url)
	if err != nil {
		return nil, err
	}

	return &app.Deps{
		Uow:       repository.NewUoW(db),
		Gateway:   paystack.New(&cfg.Paystack, logger),
		Converter: converter,
		Logger:    logger,
	}, nil
}
