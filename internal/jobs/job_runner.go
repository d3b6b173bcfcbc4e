package jobs

import (
	"log/slog"

	"github.com/sutharv/rental-system/internal/config"
	"github.com/sutharv/rental-system/internal/logger"
	"github.com/sutharv/rental-system/internal/service"
)

// JobRunner coordinates all scheduled maintenance jobs.
type JobRunner struct {
	ledger *service.RentalLedger
	config *config.Config
	log    *slog.Logger
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(ledger *service.RentalLedger, cfg *config.Config) *JobRunner {
	return &JobRunner{
		ledger: ledger,
		config: cfg,
		log:    logger.WithService("jobs"),
	}
}

// Config returns the loaded configuration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			jr.log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	jr.log.Info("Starting job", "job", jobName)
	jobFunc()
	jr.log.Info("Job completed", "job", jobName)
}

// RunAll runs every maintenance job once (for manual execution).
func (jr *JobRunner) RunAll() {
	jr.SnapshotBackup()
	jr.VerifyLedgerIntegrity()
}
