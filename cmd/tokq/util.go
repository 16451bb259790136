package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tokq/internal/catalog"
	"tokq/internal/config"
	"tokq/internal/formatter"
	"tokq/internal/querylang"
	"tokq/internal/store"
)

// expandPath expands a path with ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}

	return strings.Replace(path, "~", home, 1), nil
}

// parseTags converts a comma-separated tag string to a slice, dropping empty
// entries.
func parseTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// loadCatalog returns the catalog at path, or the built-in one when path is
// empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return catalog.Load(expanded)
}

// checkerOptions maps the command flags to checker options.
func checkerOptions(cmdFlags *CommandFlags) []querylang.Option {
	if cmdFlags.Permissive {
		return []querylang.Option{querylang.WithPermissive()}
	}
	return nil
}

// newChecker builds a checker over the catalog selected by the flags.
func newChecker(cmdFlags *CommandFlags) (*querylang.Checker, error) {
	cat, err := loadCatalog(cmdFlags.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return querylang.NewChecker(cat, checkerOptions(cmdFlags)...), nil
}

// openStore opens the view database selected by the flags. Views are
// validated against checker before being written.
func openStore(cmdFlags *CommandFlags, checker *querylang.Checker, logger *slog.Logger) (*store.Store, error) {
	path, err := expandPath(cmdFlags.DBPath)
	if err != nil {
		return nil, err
	}
	cfg := store.DefaultConfig().
		WithPath(path).
		WithDBTimeout(config.DefaultTimeouts().DB)

	s, err := store.OpenWithConfig(cfg, checker, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open view store: %w", err)
	}
	return s, nil
}

// defaultFormatOptions returns the format options selected by the flags.
func defaultFormatOptions() formatter.FormatOptions {
	return formatter.FormatOptions{Format: flags.Format, Colorize: flags.UseColor}
}
