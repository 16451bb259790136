package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tokq/internal/formatter"
	"tokq/internal/store"
)

var viewHeaders = []string{"id", "name", "order", "order_kind", "filter", "tags", "created"}

// initViewCommands adds the view command and its subcommands to the root command.
func initViewCommands() {
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Manage saved order/filter views",
		Long: `Manage saved views. A view is a named pair of an order expression and a
filter expression that both passed validation.`,
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Validate and save a view",
		Long: `Validate and save a view. Expressions are stored in canonical form.

Examples:
  # Save a view
  tokq view save --name tight --order 'MARKET_bestAsk - MARKET_bestBid' --filter 'MARKET_acceptingOrders'

  # Print the YAML instead of saving, then apply it later
  tokq view save --name recent --order MARKET_createdAt --dry-run > recent.yaml
  tokq apply -f recent.yaml`,
		Args: cobra.NoArgs,
		RunE: runViewSave,
	}
	flags.AddViewFlags(saveCmd)
	if err := saveCmd.RegisterFlagCompletionFunc("order", fieldCompletion); err != nil {
		logger.Warn("failed to set up order completion", "error", err)
	}
	if err := saveCmd.RegisterFlagCompletionFunc("filter", fieldCompletion); err != nil {
		logger.Warn("failed to set up filter completion", "error", err)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				return runViewList(ctx, cmd.OutOrStdout(), s, defaultFormatOptions())
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a saved view as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				return runViewShow(ctx, cmd.OutOrStdout(), s, args[0])
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				v, err := s.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted view %s (%s)\n", v.Name, v.ID)
				return nil
			})
		},
	}

	viewCmd.AddCommand(saveCmd, listCmd, showCmd, deleteCmd)
	rootCmd.AddCommand(viewCmd)
}

// withStore opens the store selected by the flags, runs fn and closes it.
func withStore(ctx context.Context, fn func(context.Context, *store.Store) error) (err error) {
	checker, err := newChecker(flags)
	if err != nil {
		return err
	}
	s, err := openStore(flags, checker, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, s)
}

func runViewSave(cmd *cobra.Command, _ []string) error {
	if flags.DryRun {
		checker, err := newChecker(flags)
		if err != nil {
			return err
		}
		return handleDryRun(cmd.OutOrStdout(), checker, flags)
	}

	return withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
		return applyViewConfigs(ctx, cmd.OutOrStdout(), s, []ViewConfig{viewConfigFromFlags(flags)})
	})
}

func viewFields(v store.View) []formatter.Field {
	return []formatter.Field{
		{Name: "id", Value: v.ID},
		{Name: "name", Value: v.Name},
		{Name: "order", Value: v.Order},
		{Name: "order_kind", Value: v.OrderKind},
		{Name: "filter", Value: v.Filter},
		{Name: "tags", Value: strings.Join(v.Tags, ",")},
		{Name: "created", Value: v.CreatedAt.Format(time.RFC3339)},
	}
}

func runViewList(ctx context.Context, w io.Writer, s *store.Store, opts formatter.FormatOptions) error {
	views, err := s.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]formatter.Field, 0, len(views))
	for _, v := range views {
		rows = append(rows, viewFields(v))
	}

	out, err := formatter.Format(rows, viewHeaders, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

func runViewShow(ctx context.Context, w io.Writer, s *store.Store, idOrName string) error {
	v, err := s.Get(ctx, idOrName)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}
	fmt.Fprint(w, string(data))
	return nil
}
