package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ebucks/internal/config"
	"ebucks/internal/infra"
	"ebucks/internal/repository"
	"ebucks/internal/router"
	"ebucks/internal/service"
	"ebucks/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Amounts go over the wire as JSON numbers, which the kiosk expects.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := service.NewAuthService(repository.NewUserRepository(db), cfg).EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}

	// Worker handlers are wired here (composition root) so the pool has
	// access to every infrastructure dependency.
	mailer := infra.NewMailer(cfg)
	handlers := map[string]worker.Handler{
		worker.QueuePrint: worker.NewPrintWorker(repository.NewPrinterRepository(db), cfg.PDFStoragePath, cfg.StoreName),
	}
	if mailer.Enabled() {
		handlers[worker.QueueEmail] = worker.NewEmailWorker(mailer, cfg.PDFStoragePath)
	} else {
		log.Warn().Msg("SMTP_HOST not set, payroll emails stay queued")
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	var smtpBreaker *infra.CircuitBreaker
	if mailer.Enabled() {
		smtpBreaker = mailer.Breaker()
	}
	worker.StartReplayCron(ctx, worker.ReplayCronConfig{RDB: rdb, SMTP: smtpBreaker})

	r := router.New(cfg, db, rdb, mailer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("E-Bucks backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
