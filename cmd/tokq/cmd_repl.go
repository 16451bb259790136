package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tokq/internal/catalog"
	"tokq/internal/config"
	"tokq/internal/querylang"
	"tokq/internal/store"
)

// initReplCommand adds the repl command to the root command.
func initReplCommand() {
	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Edit order and filter expressions with live validation",
		Long: `Edit order and filter expressions with live validation.

The prompt shows whether the text typed so far is valid for the current box
(✓ valid, ✗ rejected). Press Enter to accept an expression. Tab completes
field names and operators.

Commands:
  :order          switch to the order box
  :filter         switch to the filter box
  :show           print the accepted order and filter
  :fields [kind]  list catalog fields
  :save <name>    save the accepted order and filter as a view
  :quit           leave

With --catalog, the catalog file is reloaded whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(flags.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	holder := catalog.NewHolder(cat)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if flags.CatalogPath != "" {
		path, err := expandPath(flags.CatalogPath)
		if err != nil {
			return err
		}
		go func() {
			if err := catalog.Watch(ctx, path, holder, config.DefaultTimeouts().CatalogReload, logger); err != nil {
				logger.Error("catalog watch stopped", "error", err)
			}
		}()
	}

	session := newReplSession(ctx, cmd.OutOrStdout(), holder, checkerOptions(flags), logger)
	session.openStore = func(c *querylang.Checker) (*store.Store, error) {
		return openStore(flags, c, logger)
	}

	logger.Info("repl started", "fields", cat.Len())
	fmt.Fprintln(session.out, "Type an expression, or :quit to leave. Tab completes fields.")
	prompt.New(
		session.execute,
		session.complete,
		prompt.OptionTitle("tokq"),
		prompt.OptionLivePrefix(session.livePrefix),
		prompt.OptionSetExitCheckerOnInput(session.shouldExit),
	).Run()
	return nil
}

// replSession holds the state of one interactive session. go-prompt calls
// the completer before each render, so the live prefix judges the text the
// completer last saw.
type replSession struct {
	ctx       context.Context
	out       io.Writer
	holder    *catalog.Holder
	opts      []querylang.Option
	logger    *slog.Logger
	openStore func(*querylang.Checker) (*store.Store, error)

	mode    string
	current string
	order   string
	filter  string

	ok   func(a ...any) string
	fail func(a ...any) string
}

func newReplSession(ctx context.Context, out io.Writer, holder *catalog.Holder, opts []querylang.Option, logger *slog.Logger) *replSession {
	return &replSession{
		ctx:    ctx,
		out:    out,
		holder: holder,
		opts:   opts,
		logger: logger,
		mode:   ModeFilter,
		ok:     color.New(color.FgGreen).SprintFunc(),
		fail:   color.New(color.FgRed).SprintFunc(),
	}
}

// checker builds a checker over the current catalog, which may have been
// reloaded since the last keystroke.
func (s *replSession) checker() *querylang.Checker {
	return querylang.NewChecker(s.holder.Load(), s.opts...)
}

// validate checks input against the current box.
func (s *replSession) validate(input string) error {
	if s.mode == ModeOrder {
		return s.checker().ValidateOrder(input)
	}
	return s.checker().ValidateFilter(input)
}

func (s *replSession) livePrefix() (string, bool) {
	mark := "·"
	switch {
	case strings.TrimSpace(s.current) == "" || strings.HasPrefix(strings.TrimSpace(s.current), ":"):
	case s.validate(s.current) == nil:
		mark = "✓"
	default:
		mark = "✗"
	}
	return fmt.Sprintf("%s %s> ", s.mode, mark), true
}

func (s *replSession) shouldExit(in string, breakline bool) bool {
	if !breakline {
		return false
	}
	switch strings.TrimSpace(in) {
	case ":quit", ":exit", ":q":
		return true
	}
	return s.ctx.Err() != nil
}

var replCommands = []prompt.Suggest{
	{Text: ":order", Description: "switch to the order box"},
	{Text: ":filter", Description: "switch to the filter box"},
	{Text: ":show", Description: "print the accepted order and filter"},
	{Text: ":fields", Description: "list catalog fields"},
	{Text: ":save", Description: "save the accepted order and filter as a view"},
	{Text: ":quit", Description: "leave"},
}

var replOperators = []prompt.Suggest{
	{Text: "&", Description: "and"},
	{Text: "|", Description: "or"},
	{Text: "!", Description: "not"},
	{Text: "=", Description: "equal"},
	{Text: "!=", Description: "not equal"},
	{Text: ">", Description: "greater"},
	{Text: "<", Description: "less"},
	{Text: ">=", Description: "greater or equal"},
	{Text: "<=", Description: "less or equal"},
	{Text: "+", Description: "add"},
	{Text: "-", Description: "subtract"},
	{Text: "*", Description: "multiply"},
}

// wordSeparators end an identifier for completion purposes.
const wordSeparators = " ()!&|+-*=<>\""

func (s *replSession) complete(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	s.current = d.Text

	if strings.HasPrefix(strings.TrimSpace(text), ":") {
		if strings.Contains(text, " ") {
			return nil
		}
		return prompt.FilterHasPrefix(replCommands, strings.TrimSpace(text), true)
	}

	word := text[strings.LastIndexAny(text, wordSeparators)+1:]
	if word == "" {
		if strings.HasSuffix(text, " ") && strings.TrimSpace(text) != "" {
			return replOperators
		}
		return nil
	}

	cat := s.holder.Load()
	suggestions := make([]prompt.Suggest, 0, cat.Len())
	for _, name := range cat.Names() {
		suggestions = append(suggestions, prompt.Suggest{Text: name, Description: cat.Kind(name).String()})
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}

func (s *replSession) execute(line string) {
	line = strings.TrimSpace(line)
	s.current = ""
	if line == "" {
		return
	}

	if strings.HasPrefix(line, ":") {
		s.command(line)
		return
	}

	if err := s.validate(line); err != nil {
		fmt.Fprintf(s.out, "%s %v\n", s.fail("rejected:"), err)
		return
	}
	canonical, err := s.checker().Normalize(line)
	if err != nil {
		fmt.Fprintf(s.out, "%s %v\n", s.fail("rejected:"), err)
		return
	}

	if s.mode == ModeOrder {
		s.order = canonical
	} else {
		s.filter = canonical
	}
	fmt.Fprintf(s.out, "%s %s = %s\n", s.ok("accepted:"), s.mode, canonical)
}

func (s *replSession) command(line string) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":order":
		s.mode = ModeOrder
	case ":filter":
		s.mode = ModeFilter
	case ":show":
		fmt.Fprintf(s.out, "order:  %s\nfilter: %s\n", s.order, s.filter)
	case ":fields":
		if err := runFields(s.out, s.holder.Load(), arg, defaultFormatOptions()); err != nil {
			fmt.Fprintf(s.out, "%s %v\n", s.fail("error:"), err)
		}
	case ":save":
		s.save(arg)
	case ":quit", ":exit", ":q":
	default:
		fmt.Fprintf(s.out, "%s unknown command %s\n", s.fail("error:"), name)
	}
}

func (s *replSession) save(name string) {
	if name == "" {
		fmt.Fprintf(s.out, "%s usage: :save <name>\n", s.fail("error:"))
		return
	}
	if s.openStore == nil {
		fmt.Fprintf(s.out, "%s no view store configured\n", s.fail("error:"))
		return
	}

	st, err := s.openStore(s.checker())
	if err != nil {
		fmt.Fprintf(s.out, "%s %v\n", s.fail("error:"), err)
		return
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			s.logger.Warn("failed to close view store", "error", closeErr)
		}
	}()

	v, err := st.Save(s.ctx, store.View{Name: name, Order: s.order, Filter: s.filter})
	if err != nil {
		fmt.Fprintf(s.out, "%s %v\n", s.fail("error:"), err)
		return
	}
	fmt.Fprintf(s.out, "%s view %s (%s)\n", s.ok("saved:"), v.Name, v.ID)
}
