package main

import (
	"os"

	"github.com/spf13/cobra"
)

// CommandFlags holds all the flags for the CLI commands.
type CommandFlags struct {
	// Common flags
	Debug      bool
	UseColor   bool
	Format     string
	Permissive bool

	// Location flags
	CatalogPath string
	DBPath      string

	// View flags
	DryRun          bool
	Collection      bool
	ViewName        string
	ViewDescription string
	ViewTags        string
	Order           string
	Filter          string

	// Listing flags
	Kind string
}

// NewCommandFlags creates a new CommandFlags instance with default values.
func NewCommandFlags() *CommandFlags {
	flags := &CommandFlags{
		UseColor: true,
		Format:   defaultFormat,
		DBPath:   DefaultDBPath,
	}

	if env := os.Getenv(EnvCatalog); env != "" {
		flags.CatalogPath = env
	}
	if env := os.Getenv(EnvDB); env != "" {
		flags.DBPath = env
	}

	return flags
}

// AddCommonFlags adds the persistent flags shared by every command.
func (f *CommandFlags) AddCommonFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.CatalogPath, "catalog", f.CatalogPath, "Field catalog YAML file (default: built-in market catalog, env "+EnvCatalog+")")
	cmd.PersistentFlags().StringVar(&f.DBPath, "db", f.DBPath, "View database path (env "+EnvDB+")")
	cmd.PersistentFlags().StringVarP(&f.Format, "format", "o", f.Format, "Output format (table, csv, json)")
	cmd.PersistentFlags().BoolVar(&f.UseColor, "color", f.UseColor, "Colorize verdicts (valid as green, rejected as red)")
	cmd.PersistentFlags().BoolVar(&f.Permissive, "permissive", f.Permissive, "Skip characters the tokenizer does not recognise instead of rejecting them")
	cmd.PersistentFlags().BoolVar(&f.Debug, "debug", f.Debug, "Enable debug logging")
}

// AddViewFlags adds the flags describing a view to a command.
func (f *CommandFlags) AddViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ViewName, "name", "", "Name for the view")
	cmd.Flags().StringVar(&f.ViewDescription, "description", "", "Description for the view")
	cmd.Flags().StringVar(&f.ViewTags, "tags", "", "Comma-separated tags for the view")
	cmd.Flags().StringVar(&f.Order, "order", "", "Order expression (number or time)")
	cmd.Flags().StringVar(&f.Filter, "filter", "", "Filter expression (predicate)")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "Validate and print the view as YAML without saving it")
	cmd.Flags().BoolVar(&f.Collection, "collection", false, "With --dry-run, output as a view collection")
}
