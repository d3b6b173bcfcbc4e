package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sutharv/rental-system/internal/logger"
)

const backupPrefix = "snapshot-"

// SnapshotBackup copies the current snapshot file into the backup directory
// under a timestamped name and prunes the oldest backups beyond the
// configured limit. A missing snapshot file is not an error; there is simply
// nothing to back up yet.
func (jr *JobRunner) SnapshotBackup() {
	jr.runWithRecovery("snapshot-backup", func() {
		cfg := jr.config.Snapshot

		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				jr.log.Info("No snapshot file to back up", "path", cfg.Path)
				return
			}
			jr.log.Error("Failed to read snapshot for backup", "path", cfg.Path, "error", err)
			return
		}

		if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
			jr.log.Error("Failed to create backup directory", "dir", cfg.BackupDir, "error", err)
			return
		}

		name := fmt.Sprintf("%s%s.json", backupPrefix, time.Now().UTC().Format("20060102T150405"))
		target := filepath.Join(cfg.BackupDir, name)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			jr.log.Error("Failed to write snapshot backup", "path", target, "error", err)
			return
		}
		jr.log.Info("Snapshot backup written", "path", target)

		if err := pruneBackups(cfg.BackupDir, cfg.MaxBackups); err != nil {
			jr.log.Error("Failed to prune old backups", "dir", cfg.BackupDir, "error", err)
		}
	})
}

// pruneBackups deletes the oldest backups so at most keep remain. Backup
// names embed a sortable UTC timestamp, so lexical order is age order.
func pruneBackups(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), backupPrefix) {
			backups = append(backups, entry.Name())
		}
	}
	if len(backups) <= keep {
		return nil
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
		logger.Debug("Pruned snapshot backup", "name", name)
	}
	return nil
}

// VerifyLedgerIntegrity re-derives the active-rentals index and logs every
// divergence between it and the live ledger state.
func (jr *JobRunner) VerifyLedgerIntegrity() {
	jr.runWithRecovery("verify-ledger-integrity", func() {
		issues := jr.ledger.VerifyIntegrity(context.Background())
		if len(issues) == 0 {
			jr.log.Info("Ledger integrity verified, no issues found")
			return
		}
		for _, issue := range issues {
			jr.log.Error("Ledger integrity violation", "issue", issue)
		}
	})
}
