// Command api runs the calculation and pricing backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metallbau_backend/internal/adapters"
	"metallbau_backend/internal/audit"
	"metallbau_backend/internal/boms"
	"metallbau_backend/internal/calculations"
	apphttp "metallbau_backend/internal/http"
	"metallbau_backend/internal/http/router"
	"metallbau_backend/internal/quotes"
	"metallbau_backend/platform/config"
	"metallbau_backend/platform/db"
	"metallbau_backend/platform/events"
	"metallbau_backend/platform/logger"
	"metallbau_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("database connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		log.Error("migrations failed", "error", err.Error())
		os.Exit(1)
	}

	validate := validator.New()
	bus := events.NewInMemoryBus(log)

	calculationsModule := calculations.NewModule(pool, log, validate, bus, cfg)
	quotesModule := quotes.NewModule(pool, log, validate)
	bomsModule := boms.NewModule(pool, log, validate)
	audit.NewModule(pool, log, bus)

	// Cross-module wiring goes through adapters so the calculations domain
	// only sees its own narrow interfaces.
	calculationsModule.Service().SetQuoteWriter(adapters.NewQuoteWriterAdapter(quotesModule.Repository()))
	calculationsModule.Service().SetBOMSource(adapters.NewBOMSourceAdapter(bomsModule.Repository()))

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			calculationsModule,
			quotesModule,
			bomsModule,
		},
	}

	engine := router.New(app)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.GetHTTPAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
}
