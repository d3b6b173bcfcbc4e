package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/sutharv/rental-system/internal/api/http"
	"github.com/sutharv/rental-system/internal/config"
	"github.com/sutharv/rental-system/internal/jobs"
	"github.com/sutharv/rental-system/internal/logger"
	"github.com/sutharv/rental-system/internal/repository/jsonfile"
	"github.com/sutharv/rental-system/internal/scheduler"
	"github.com/sutharv/rental-system/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental system server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Snapshot configuration", "path", cfg.Snapshot.Path, "backup_dir", cfg.Snapshot.BackupDir)

	// Initialize snapshot store and ledger
	store := jsonfile.NewStore(cfg.Snapshot.Path)
	ledger := service.NewRentalLedger(store)
	if err := ledger.Load(context.Background()); err != nil {
		logger.Error("Failed to load ledger snapshot", "error", err)
		log.Fatalf("Failed to load ledger snapshot: %v", err)
	}
	logger.Info("Ledger loaded",
		"items", len(ledger.Items(context.Background())),
		"customers", len(ledger.Customers(context.Background())),
		"history_entries", len(ledger.History(context.Background())))

	// Initialize HTTP API
	handler := httpapi.NewHandler(ledger)
	router := httpapi.NewRouter(handler)

	// Initialize scheduled maintenance
	jobRunner := jobs.NewJobRunner(ledger, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server cleanly", "error", err)
	}
	logger.Info("Server stopped")
}
