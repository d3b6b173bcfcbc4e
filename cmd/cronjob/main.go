package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

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
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('snapshot-backup', 'verify-integrity', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental system job runner...", "log_level", cfg.Log.Level)

	// Initialize snapshot store and ledger
	store := jsonfile.NewStore(cfg.Snapshot.Path)
	ledger := service.NewRentalLedger(store)
	if err := ledger.Load(context.Background()); err != nil {
		logger.Error("Failed to load ledger snapshot", "error", err)
		log.Fatalf("Failed to load ledger snapshot: %v", err)
	}

	jobRunner := jobs.NewJobRunner(ledger, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "snapshot-backup":
			jobRunner.SnapshotBackup()
		case "verify-integrity":
			jobRunner.VerifyLedgerIntegrity()
		case "all":
			jobRunner.RunAll()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Job run complete", "job", *runOnce)
		return
	}

	// Stay resident on the cron schedule
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sched.Stop()
	logger.Info("Job runner stopped")
}
