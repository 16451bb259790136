package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tokq/internal/formatter"
	"tokq/internal/logging"
)

// Version information.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultFormat = "table"

var (
	// Command flags.
	flags = NewCommandFlags()

	// logger is replaced in PersistentPreRunE once --debug is known.
	logger = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "tokq",
	Short:   "Check and manage typed order and filter expressions for market records",
	Version: Version,
	Long: `Check and manage typed order and filter expressions for market records.

An order expression ranks records and must be a number or a time. A filter
expression selects records and must be a predicate. Field names come from the
field catalog (built in, or --catalog).

Examples:
  # Is this a valid filter?
  tokq check filter 'MARKET_negRisk & !MARKET_feesEnabled'

  # Save an accepted order/filter pair
  tokq view save --name tight --order 'MARKET_bestAsk - MARKET_bestBid' --filter 'MARKET_acceptingOrders'

  # Edit interactively with live validation
  tokq repl`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if !slices.Contains(formatter.Formats, flags.Format) {
			return fmt.Errorf("invalid format %q: must be one of: %s", flags.Format, strings.Join(formatter.Formats, ", "))
		}

		logger = logging.New(os.Stderr, logging.LevelFor(flags.Debug), false)

		if !flags.UseColor {
			color.NoColor = true
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	flags.AddCommonFlags(rootCmd)
	AddCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// AddCommands adds all the commands to the root command.
func AddCommands() {
	rootCmd.AddCommand(checkCmd, tokensCmd, astCmd, fieldsCmd)
	initViewCommands()
	initApplyCommand()
	initReplCommand()

	rootCmd.AddCommand(completionCmd)
	setupRootCommandCompletion(rootCmd)
}
