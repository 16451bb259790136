// Package store persists accepted order/filter pairs ("views") in a bbolt
// database.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"tokq/internal/config"
	"tokq/internal/logging"
)

const bucketViews = "views"

// Store wraps bbolt and provides view storage.
type Store struct {
	db        *bbolt.DB
	config    *Config
	validator Validator
	logger    Logger
}

// Open opens or creates the store at path. Views are saved as given, without
// validation.
func Open(path string) (*Store, error) {
	return OpenWithConfig(DefaultConfig().WithPath(path), nil, nil)
}

// OpenWithConfig opens or creates the store. The parent directory and bucket
// are created if missing. A nil validator disables validation; a nil logger
// discards.
func OpenWithConfig(cfg *Config, validator Validator, logger Logger) (*Store, error) {
	if cfg == nil {
		return nil, newConfigurationError("config cannot be nil", nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), config.DirPermissions); err != nil {
		return nil, newConfigurationError("failed to create store directory", err)
	}

	db, err := bbolt.Open(cfg.Path, config.DBFilePermissions, &bbolt.Options{
		Timeout: cfg.DBTimeout,
	})
	if err != nil {
		return nil, newDatabaseError("open", cfg.Path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketViews)); err != nil {
			return newDatabaseError("create_bucket", bucketViews, err)
		}
		return nil
	})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("failed to close database", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database buckets: %w", err)
	}

	logger.Debug("store opened", "path", cfg.Path)
	return &Store{
		db:        db,
		config:    cfg,
		validator: validator,
		logger:    logger,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.config.Path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		s.logger.Debug("store closed", "path", s.config.Path)
	}
	return nil
}
