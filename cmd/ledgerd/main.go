package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/walletflow/internal/infrastructure/config"
	"github.com/iho/walletflow/internal/infrastructure/logger"
	"github.com/iho/walletflow/internal/infrastructure/metrics"
	"github.com/iho/walletflow/internal/ledgertest"
)

// ledgerd is the development ledger: the same wire contract the wallet
// talks to in production, backed by in-memory state. It exists so the
// wallet can be exercised end to end without external services.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "ledgerd",
	})

	m := metrics.New()
	ledger := ledgertest.NewServer(ledgertest.Config{
		Currency:   cfg.Currency,
		MaxTxCents: cfg.LedgerdMaxTxCents,
		Logger:     log,
		Metrics:    m,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", ledger.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.LedgerdPort,
		Handler:      mux,
		ReadTimeout:  cfg.LedgerdReadTimeout,
		WriteTimeout: cfg.LedgerdWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.LedgerdPort).Msg("starting ledgerd")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down ledgerd...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LedgerdShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("ledgerd stopped")
}
