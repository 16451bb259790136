package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tokq/internal/catalog"
	"tokq/internal/formatter"
	"tokq/internal/querylang"
)

// errRejected is returned when the checked expression fails, so the process
// exits non-zero.
var errRejected = errors.New("expression rejected")

var checkHeaders = []string{"mode", "input", "kind", formatter.VerdictColumn, "reason"}

var checkCmd = &cobra.Command{
	Use:   "check <number|predicate|time|order|filter> <expression...>",
	Short: "Check whether an expression is valid in the given role",
	Long: `Check whether an expression is valid in the given role.

Modes:
  number     the expression is a well-typed number
  predicate  the expression is a well-typed predicate
  time       the input is a unix timestamp, a calendar date, or a time expression
  order      the expression can rank records (number or time)
  filter     the expression can select records (predicate)

Examples:
  tokq check number 'MARKET_bestAsk - MARKET_bestBid'
  tokq check filter 'MARKET_startDate > MARKET_endDate'
  tokq check filter 'MARKET_endDate < @2025-06-30'
  tokq check time 2024-01-15

Time literals inside expressions take an @ prefix; a bare 2024-01-15 is
arithmetic.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := newChecker(flags)
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), checker, args[0], strings.Join(args[1:], " "), defaultFormatOptions())
	},
	ValidArgsFunction: modeCompletion,
}

// verdict is the outcome of checking one input in one mode.
type verdict struct {
	Mode   string
	Input  string
	Kind   catalog.Kind
	Valid  bool
	Reason string
	Err    error
}

// evaluate runs the helper matching mode against input.
func evaluate(c *querylang.Checker, mode, input string) (verdict, error) {
	v := verdict{Mode: mode, Input: input, Kind: c.Kind(input)}

	var err error
	switch mode {
	case ModeNumber:
		v.Valid = c.IsNumberExpr(input)
	case ModePredicate:
		v.Valid = c.IsPredicateExpr(input)
	case ModeTime:
		v.Valid = c.IsTimeExpr(input)
	case ModeOrder:
		err = c.ValidateOrder(input)
		v.Valid = err == nil
	case ModeFilter:
		err = c.ValidateFilter(input)
		v.Valid = err == nil
	default:
		return verdict{}, fmt.Errorf("invalid mode %q: must be one of: %s", mode, strings.Join(checkModes, ", "))
	}

	if !v.Valid {
		if err == nil {
			err = explain(c, input, mode)
		}
		v.Err = err
		v.Reason = err.Error()
	}
	return v, nil
}

// explain describes why input is not of the wanted kind.
func explain(c *querylang.Checker, input, want string) error {
	res, err := c.Check(input)
	if err != nil {
		return err
	}
	return fmt.Errorf("expression is %s, not %s", res.Kind, want)
}

func (v verdict) fields() []formatter.Field {
	return []formatter.Field{
		{Name: "mode", Value: v.Mode},
		{Name: "input", Value: v.Input},
		{Name: "kind", Value: v.Kind.String()},
		{Name: formatter.VerdictColumn, Value: fmt.Sprint(v.Valid)},
		{Name: "reason", Value: v.Reason},
	}
}

// runCheck evaluates input and writes the verdict. It returns errRejected
// when the input is not valid in mode.
func runCheck(w io.Writer, c *querylang.Checker, mode, input string, opts formatter.FormatOptions) error {
	v, err := evaluate(c, mode, input)
	if err != nil {
		return err
	}

	out, err := formatter.Format([][]formatter.Field{v.fields()}, checkHeaders, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)

	if !v.Valid {
		return fmt.Errorf("%w: %w", errRejected, v.Err)
	}
	return nil
}
