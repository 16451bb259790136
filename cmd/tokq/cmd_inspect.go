package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tokq/internal/catalog"
	"tokq/internal/formatter"
	"tokq/internal/querylang"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <expression...>",
	Short: "Show how an expression is tokenized",
	Long: `Show how an expression is tokenized.

Example:
  tokq tokens 'MARKET_bestBid >= 0.5'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTokens(cmd.OutOrStdout(), strings.Join(args, " "), checkerLexOptions(flags), defaultFormatOptions())
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <expression...>",
	Short: "Show the parsed form and inferred kind of an expression",
	Long: `Show the parsed form and inferred kind of an expression.

The canonical form is fully parenthesised, so it shows how operators bind.

Example:
  tokq ast '!MARKET_negRisk & MARKET_feesEnabled'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := newChecker(flags)
		if err != nil {
			return err
		}
		return runAST(cmd.OutOrStdout(), checker, strings.Join(args, " "), checkerLexOptions(flags))
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields of the catalog",
	Long: `List the fields of the catalog with their kinds.

Examples:
  tokq fields
  tokq fields --kind time
  tokq fields --catalog ./catalog.yaml -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog(flags.CatalogPath)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		return runFields(cmd.OutOrStdout(), cat, flags.Kind, defaultFormatOptions())
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&flags.Kind, "kind", "", "Only list fields of this kind (number, time, string, predicate)")
}

// checkerLexOptions maps the command flags to tokenizer options.
func checkerLexOptions(cmdFlags *CommandFlags) []querylang.LexOption {
	if cmdFlags.Permissive {
		return []querylang.LexOption{querylang.WithPermissiveLexing()}
	}
	return nil
}

func runTokens(w io.Writer, input string, lexOpts []querylang.LexOption, opts formatter.FormatOptions) error {
	tokens, err := querylang.Tokenize(input, lexOpts...)
	if err != nil {
		return err
	}

	rows := make([][]formatter.Field, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []formatter.Field{
			{Name: "pos", Value: strconv.Itoa(tok.Pos)},
			{Name: "kind", Value: tok.Kind.String()},
			{Name: "text", Value: tok.Text},
		})
	}

	out, err := formatter.Format(rows, []string{"pos", "kind", "text"}, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// runAST prints the canonical form, the referenced fields and the inferred
// kind. A type error is reported in the output rather than returned, since
// the tree itself is still useful.
func runAST(w io.Writer, c *querylang.Checker, input string, lexOpts []querylang.LexOption) error {
	expr, err := querylang.ParseString(input, lexOpts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "expr:   %s\n", expr)
	fmt.Fprintf(w, "fields: %s\n", strings.Join(querylang.Fields(expr), ", "))

	kind, err := c.Infer(expr)
	if err != nil {
		fmt.Fprintf(w, "kind:   %s (%v)\n", kind, err)
		return nil
	}
	fmt.Fprintf(w, "kind:   %s\n", kind)
	return nil
}

func runFields(w io.Writer, cat *catalog.Catalog, kindName string, opts formatter.FormatOptions) error {
	kinds := catalog.Kinds()
	if kindName != "" {
		kind, err := catalog.ParseKind(kindName)
		if err != nil {
			return err
		}
		kinds = []catalog.Kind{kind}
	}

	var rows [][]formatter.Field
	for _, kind := range kinds {
		for _, name := range cat.Fields(kind) {
			rows = append(rows, []formatter.Field{
				{Name: "name", Value: name},
				{Name: "kind", Value: kind.String()},
			})
		}
	}

	out, err := formatter.Format(rows, []string{"name", "kind"}, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}
