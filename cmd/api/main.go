package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/config"
	"github.com/Jimfarnum/spiralshops-sub003/internal/handler"
	"github.com/Jimfarnum/spiralshops-sub003/internal/issuer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/logger"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/renderer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/reporter"
	"github.com/Jimfarnum/spiralshops-sub003/internal/stats"
	"github.com/Jimfarnum/spiralshops-sub003/internal/template"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting QR attribution service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Storage mode is decided here, once, for the process lifetime
	rec := recorder.New(ctx, &cfg.Cloudant, log)
	log.Info("Storage mode decided", zap.String("mode", string(rec.Mode())))

	// Start the coordination reporter worker
	rep := reporter.New(&cfg.Reporter, log)
	reporterCtx, stopReporter := context.WithCancel(ctx)
	defer stopReporter()
	go rep.Start(reporterCtx)

	catalog := template.NewCatalog()
	agg := stats.NewAggregator(rec, log)
	iss := issuer.New(rec, rep, renderer.NewQRRenderer(), catalog,
		cfg.Service.BaseURL, cfg.Service.DefaultLandingPath, log)

	h := handler.NewHandler(iss, agg, catalog, rec, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	server := &http.Server{Addr: addr, Handler: h}

	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gracefully")
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	stopReporter()
}
