// Package config provides shared defaults for timeouts and file permissions.
package config

import "time"

// Timeouts defines the timeout values used throughout the application.
type Timeouts struct {
	// DB bounds how long opening the view store waits for its file lock.
	DB time.Duration

	// CatalogReload is the quiet period after a catalog file change before it
	// is re-read. Editors often write a file in several steps.
	CatalogReload time.Duration
}

// DefaultTimeouts returns the default timeout configuration.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		DB:            5 * time.Second,
		CatalogReload: 200 * time.Millisecond,
	}
}
