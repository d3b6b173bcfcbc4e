package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/logger"
	"github.com/sutharv/rental-system/internal/repository"
)

// Store persists ledger snapshots as a single JSON document on disk. Every
// Save rewrites the whole document; the write goes through a temp file and
// rename so a crash mid-write cannot leave a truncated snapshot behind.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(ctx context.Context, snap *repository.Snapshot) error {
	data, err := json.MarshalIndent(encodeSnapshot(snap), "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", domain.ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing snapshot: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replacing snapshot: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load reads the snapshot back. A missing or syntactically invalid file
// degrades to an empty snapshot so a fresh deployment (or a corrupted one)
// still starts; every other failure is logged and returned.
func (s *Store) Load(ctx context.Context) (*repository.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("Snapshot file not found, starting with empty data", "path", s.path)
			return repository.NewSnapshot(), nil
		}
		logger.Error("Failed to read snapshot file", "path", s.path, "error", err)
		return nil, err
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Error("Snapshot file is not valid JSON, starting with empty data", "path", s.path, "error", err)
		return repository.NewSnapshot(), nil
	}

	snap, err := decodeSnapshot(&doc)
	if err != nil {
		logger.Error("Failed to decode snapshot", "path", s.path, "error", err)
		return nil, err
	}
	return snap, nil
}
