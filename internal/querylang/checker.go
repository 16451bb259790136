package querylang

import (
	"fmt"
	"strings"

	"tokq/internal/catalog"
)

// Option configures a Checker.
type Option func(*Checker)

// WithPermissive makes the checker tokenize with WithPermissiveLexing.
func WithPermissive() Option {
	return func(c *Checker) {
		c.lexOpts = append(c.lexOpts, WithPermissiveLexing())
	}
}

// Checker runs the tokenize, parse and infer pipeline against one catalog.
// It holds no mutable state and is safe for concurrent use.
type Checker struct {
	catalog *catalog.Catalog
	lexOpts []LexOption
}

// NewChecker returns a checker for the given catalog.
func NewChecker(cat *catalog.Catalog, opts ...Option) *Checker {
	c := &Checker{catalog: cat}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the checker resolves fields against.
func (c *Checker) Catalog() *catalog.Catalog {
	return c.catalog
}

// Result is the outcome of a successful check.
type Result struct {
	Tokens []Token
	Expr   Expr
	Kind   Kind
}

// Check tokenizes, parses and type-checks input.
func (c *Checker) Check(input string) (Result, error) {
	tokens, err := Tokenize(input, c.lexOpts...)
	if err != nil {
		return Result{}, err
	}
	expr, err := Parse(tokens)
	if err != nil {
		return Result{}, err
	}
	kind, err := c.Infer(expr)
	if err != nil {
		return Result{}, err
	}
	return Result{Tokens: tokens, Expr: expr, Kind: kind}, nil
}

// Kind returns the kind of input, or KindInvalid if it fails any stage.
func (c *Checker) Kind(input string) Kind {
	res, err := c.Check(input)
	if err != nil {
		return catalog.KindInvalid
	}
	return res.Kind
}

// IsNumberExpr reports whether input is a well-typed number expression.
func (c *Checker) IsNumberExpr(input string) bool {
	return c.Kind(input) == catalog.KindNumber
}

// IsPredicateExpr reports whether input is a well-typed predicate expression.
func (c *Checker) IsPredicateExpr(input string) bool {
	return c.Kind(input) == catalog.KindPredicate
}

// IsTimeExpr reports whether input denotes a time: a unix timestamp made of
// digits, a calendar date in one of the recognised layouts, or a well-typed
// expression of kind time such as a catalog time field.
func (c *Checker) IsTimeExpr(input string) bool {
	if _, ok := ParseCalendarTime(input); ok {
		return true
	}
	return c.Kind(input) == catalog.KindTime
}

// IsOrderExpr reports whether input can rank records: a number or time
// expression, or a standalone time value.
func (c *Checker) IsOrderExpr(input string) bool {
	return c.Kind(input).Orderable() || c.IsTimeExpr(input)
}

// OrderKind is the kind a valid order expression ranks by. A standalone
// calendar time ranks as time even when it also reads as arithmetic, as
// 2024-01-15 does; bare digits stay a number. It returns KindInvalid when
// input is not a valid order.
func (c *Checker) OrderKind(input string) Kind {
	if _, ok := ParseCalendarTime(input); ok && !isAllDigits(strings.TrimSpace(input)) {
		return catalog.KindTime
	}
	if kind := c.Kind(input); kind.Orderable() {
		return kind
	}
	if _, ok := ParseCalendarTime(input); ok {
		return catalog.KindTime
	}
	return catalog.KindInvalid
}

// ValidateOrder returns nil if input is acceptable in the order box, and the
// reason otherwise.
func (c *Checker) ValidateOrder(input string) error {
	if _, ok := ParseCalendarTime(input); ok {
		return nil
	}
	res, err := c.Check(input)
	if err != nil {
		return err
	}
	if !res.Kind.Orderable() {
		return fmt.Errorf("%w: got %s", ErrNotOrderable, res.Kind)
	}
	return nil
}

// ValidateFilter returns nil if input is a well-typed predicate, and the
// reason otherwise.
func (c *Checker) ValidateFilter(input string) error {
	res, err := c.Check(input)
	if err != nil {
		return err
	}
	if res.Kind != catalog.KindPredicate {
		return fmt.Errorf("%w: got %s", ErrNotPredicate, res.Kind)
	}
	return nil
}

// Normalize returns the canonical form of a well-typed expression. Standalone
// calendar times are returned trimmed.
func (c *Checker) Normalize(input string) (string, error) {
	if _, ok := ParseCalendarTime(input); ok {
		return strings.TrimSpace(input), nil
	}
	res, err := c.Check(input)
	if err != nil {
		return "", err
	}
	return res.Expr.String(), nil
}
