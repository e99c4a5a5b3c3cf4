package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Ledger service
	LedgerBaseURL string        `env:"LEDGER_BASE_URL" envDefault:"http://127.0.0.1:8001"`
	LedgerTimeout time.Duration `env:"LEDGER_TIMEOUT"  envDefault:"10s"`

	// Card confirmation provider (optional - leave empty to disable the
	// card deposit path)
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY" envDefault:""`
	StripeAPIBaseURL     string `env:"STRIPE_API_BASE_URL"    envDefault:"https://api.stripe.com"`

	// Wallet
	Currency  string `env:"WALLET_CURRENCY"   envDefault:"USD"`
	ListLimit int    `env:"WALLET_LIST_LIMIT" envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Development ledger (ledgerd)
	LedgerdPort            string        `env:"LEDGERD_PORT"              envDefault:"8001"`
	LedgerdMaxTxCents      int64         `env:"LEDGERD_MAX_TX_CENTS"      envDefault:"50000"`
	LedgerdReadTimeout     time.Duration `env:"LEDGERD_READ_TIMEOUT"      envDefault:"30s"`
	LedgerdWriteTimeout    time.Duration `env:"LEDGERD_WRITE_TIMEOUT"     envDefault:"30s"`
	LedgerdShutdownTimeout time.Duration `env:"LEDGERD_SHUTDOWN_TIMEOUT"  envDefault:"10s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
