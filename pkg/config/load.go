package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the .env file (when present) and the process environment into an
// App config.
func Load() (*App, error) {
	logger := slog.Default()
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"paystack_base_url", cfg.Paystack.BaseUrl,
		"paystack_secret_key", maskValue(cfg.Paystack.SecretKey),
		"naira_per_coin", cfg.Rate.NairaPerCoin,
		"min_deposit_naira", cfg.Rate.MinDepositNaira,
		"min_withdrawal_naira", cfg.Rate.MinWithdrawalNaira,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
