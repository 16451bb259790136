package querylang

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"tokq/internal/catalog"
)

func newTestChecker(t *testing.T, opts ...Option) *Checker {
	t.Helper()
	return NewChecker(catalog.Default(), opts...)
}

func TestCheckerKind(t *testing.T) {
	c := newTestChecker(t)

	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{name: "numeric field", input: "MARKET_bestBid", want: KindNumber},
		{name: "time field", input: "MARKET_startDate", want: KindTime},
		{name: "string field", input: "MARKET_question", want: KindString},
		{name: "predicate field", input: "MARKET_negRisk", want: KindPredicate},
		{name: "number literal", input: "0.5", want: KindNumber},
		{name: "string literal", input: `"yes"`, want: KindString},
		{name: "time literal", input: "@2024-01-15", want: KindTime},
		{name: "bare date is arithmetic", input: "2024-01-15", want: KindNumber},
		{name: "bare date times number", input: "1999-12-31*2", want: KindNumber},
		{name: "number beyond float64", input: strings.Repeat("9", 400), want: KindNumber},
		{name: "arithmetic", input: "MARKET_bestAsk - MARKET_bestBid * 2", want: KindNumber},
		{name: "logical with negation", input: "MARKET_negRisk & !MARKET_feesEnabled", want: KindPredicate},
		{name: "time comparison", input: "MARKET_startDate > MARKET_endDate", want: KindPredicate},
		{name: "number compares with time", input: "MARKET_bestBid > MARKET_startDate", want: KindPredicate},
		{name: "time field against literal", input: "MARKET_endDate <= @2025-06-30T12:00:00Z", want: KindPredicate},
		{name: "string equality", input: `MARKET_umaResolutionStatus = "resolved"`, want: KindPredicate},
		{name: "predicate equality", input: "MARKET_negRisk = MARKET_feesEnabled", want: KindPredicate},
		{name: "nested filter", input: "(MARKET_spread < 0.05 | BOOK_DEPTH >= 100) & MARKET_acceptingOrders", want: KindPredicate},
		{name: "number against string", input: `MARKET_bestBid = "x"`, want: KindInvalid},
		{name: "unknown field", input: "foo = 1", want: KindInvalid},
		{name: "syntax error", input: "1 + ", want: KindInvalid},
		{name: "lex error", input: "MARKET_bestBid # 1", want: KindInvalid},
		{name: "arithmetic on time", input: "MARKET_startDate - 1", want: KindInvalid},
		{name: "arithmetic on string", input: `MARKET_question + 1`, want: KindInvalid},
		{name: "negated number", input: "!MARKET_bestBid", want: KindInvalid},
		{name: "logical with number", input: "MARKET_negRisk & 1", want: KindInvalid},
		{name: "string against time", input: `MARKET_startDate = "2024"`, want: KindInvalid},
		{name: "empty", input: "   ", want: KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Kind(tt.input); got != tt.want {
				t.Errorf("Kind(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckerClassifiers(t *testing.T) {
	c := newTestChecker(t)

	tests := []struct {
		input     string
		number    bool
		predicate bool
		time      bool
		order     bool
	}{
		{input: "MARKET_bestBid", number: true, order: true},
		{input: "MARKET_negRisk & !MARKET_feesEnabled", predicate: true},
		{input: "MARKET_startDate > MARKET_endDate", predicate: true},
		{input: "MARKET_startDate", time: true, order: true},
		{input: "1700000000", number: true, time: true, order: true},
		{input: "2024-01-15", number: true, time: true, order: true},
		{input: "1999-12-31*2", number: true, order: true},
		{input: "@2024-01-15", time: true, order: true},
		{input: strings.Repeat("9", 400), number: true, time: true, order: true},
		{input: "Jan 15 2024", time: true, order: true},
		{input: "2024/01/15", time: true, order: true},
		{input: "MARKET_question"},
		{input: `MARKET_bestBid = "x"`},
		{input: "1 + "},
		{input: "foo = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := c.IsNumberExpr(tt.input); got != tt.number {
				t.Errorf("IsNumberExpr = %v, want %v", got, tt.number)
			}
			if got := c.IsPredicateExpr(tt.input); got != tt.predicate {
				t.Errorf("IsPredicateExpr = %v, want %v", got, tt.predicate)
			}
			if got := c.IsTimeExpr(tt.input); got != tt.time {
				t.Errorf("IsTimeExpr = %v, want %v", got, tt.time)
			}
			if got := c.IsOrderExpr(tt.input); got != tt.order {
				t.Errorf("IsOrderExpr = %v, want %v", got, tt.order)
			}
		})
	}
}

func TestCheckerCheckErrors(t *testing.T) {
	c := newTestChecker(t)

	tests := []struct {
		input   string
		wantErr error
	}{
		{input: "foo = 1", wantErr: ErrUnknownField},
		{input: `MARKET_bestBid = "x"`, wantErr: ErrOperandKinds},
		{input: "!MARKET_bestBid", wantErr: ErrOperandKinds},
		{input: "(MARKET_bestBid", wantErr: ErrMissingParen},
		{input: "1 + ", wantErr: ErrUnexpectedEOF},
		{input: "", wantErr: ErrEmptyExpression},
		{input: `MARKET_id = "abc`, wantErr: ErrUnterminatedString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := c.Check(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if res.Expr != nil || res.Kind != KindInvalid {
				t.Errorf("Check(%q) returned non-zero result %+v", tt.input, res)
			}
		})
	}
}

func TestTypeErrorIdentifiesNode(t *testing.T) {
	c := newTestChecker(t)

	_, err := c.Check("MARKET_bestBid > 1 & foo")
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *TypeError, got %T: %v", err, err)
	}
	id, ok := typeErr.Node.(*Ident)
	if !ok || id.Name != "foo" {
		t.Errorf("failing node = %v, want identifier foo", typeErr.Node)
	}

	_, err = c.Check(`MARKET_bestBid = "x"`)
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *TypeError, got %T: %v", err, err)
	}
	want := "type error: incompatible operand kinds: number = string"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidateOrder(t *testing.T) {
	c := newTestChecker(t)

	valid := []string{
		"MARKET_bestBid",
		"MARKET_bestAsk - MARKET_bestBid",
		"MARKET_endDate",
		"1700000000",
		"January 15, 2024",
	}
	for _, in := range valid {
		if err := c.ValidateOrder(in); err != nil {
			t.Errorf("ValidateOrder(%q) = %v, want nil", in, err)
		}
	}

	invalid := []struct {
		input   string
		wantErr error
	}{
		{input: "MARKET_question", wantErr: ErrNotOrderable},
		{input: "MARKET_negRisk", wantErr: ErrNotOrderable},
		{input: "MARKET_bestBid > 1", wantErr: ErrNotOrderable},
		{input: "nope", wantErr: ErrUnknownField},
		{input: "MARKET_bestBid *", wantErr: ErrUnexpectedEOF},
	}
	for _, tt := range invalid {
		if err := c.ValidateOrder(tt.input); !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateOrder(%q) = %v, want %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestOrderKind(t *testing.T) {
	c := newTestChecker(t)

	tests := []struct {
		input string
		want  Kind
	}{
		{input: "MARKET_bestAsk - MARKET_bestBid", want: KindNumber},
		{input: "MARKET_endDate", want: KindTime},
		{input: "@2024-01-15", want: KindTime},
		{input: "2024-01-15", want: KindTime},
		{input: "January 15, 2024", want: KindTime},
		{input: "1700000000", want: KindNumber},
		{input: "1999-12-31*2", want: KindNumber},
		{input: "MARKET_question", want: KindInvalid},
		{input: "nope", want: KindInvalid},
	}
	for _, tt := range tests {
		if got := c.OrderKind(tt.input); got != tt.want {
			t.Errorf("OrderKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestValidateFilter(t *testing.T) {
	c := newTestChecker(t)

	if err := c.ValidateFilter("MARKET_negRisk & !MARKET_feesEnabled"); err != nil {
		t.Errorf("ValidateFilter() = %v, want nil", err)
	}

	invalid := []struct {
		input   string
		wantErr error
	}{
		{input: "MARKET_bestBid", wantErr: ErrNotPredicate},
		{input: "MARKET_startDate", wantErr: ErrNotPredicate},
		{input: "1700000000", wantErr: ErrNotPredicate},
		{input: "foo = 1", wantErr: ErrUnknownField},
		{input: "MARKET_negRisk &", wantErr: ErrUnexpectedEOF},
	}
	for _, tt := range invalid {
		if err := c.ValidateFilter(tt.input); !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateFilter(%q) = %v, want %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestNormalize(t *testing.T) {
	c := newTestChecker(t)

	tests := []struct {
		input string
		want  string
	}{
		{input: " MARKET_bestBid*2+1 ", want: "((MARKET_bestBid * 2) + 1)"},
		{input: "!MARKET_negRisk&MARKET_feesEnabled", want: "!((MARKET_negRisk & MARKET_feesEnabled))"},
		{input: "((MARKET_spread))", want: "MARKET_spread"},
		{input: " 2024/01/15 ", want: "2024/01/15"},
	}
	for _, tt := range tests {
		got, err := c.Normalize(tt.input)
		if err != nil {
			t.Errorf("Normalize(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := c.Normalize("foo"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Normalize(foo) error = %v, want %v", err, ErrUnknownField)
	}
}

func TestCheckerPermissive(t *testing.T) {
	input := "MARKET_bestBid # > 1"

	if got := newTestChecker(t).Kind(input); got != KindInvalid {
		t.Errorf("strict Kind(%q) = %s, want invalid", input, got)
	}
	if got := newTestChecker(t, WithPermissive()).Kind(input); got != KindPredicate {
		t.Errorf("permissive Kind(%q) = %s, want predicate", input, got)
	}
}

func TestCheckerCustomCatalog(t *testing.T) {
	cat, err := catalog.New(catalog.Sets{
		Numeric:   []string{"price"},
		Predicate: []string{"live"},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	c := NewChecker(cat)

	if !c.IsPredicateExpr("live & price > 1") {
		t.Error("expected predicate over custom catalog")
	}
	if c.IsNumberExpr("MARKET_bestBid") {
		t.Error("default catalog field resolved against custom catalog")
	}
}

func TestCheckerIsIdempotent(t *testing.T) {
	c := newTestChecker(t)
	inputs := []string{"MARKET_bestBid", `MARKET_bestBid = "x"`, "1 + ", "MARKET_startDate > MARKET_endDate"}

	for _, in := range inputs {
		first := c.Kind(in)
		for i := 0; i < 3; i++ {
			if got := c.Kind(in); got != first {
				t.Fatalf("Kind(%q) changed from %s to %s", in, first, got)
			}
		}
	}
}

func TestCheckerConcurrentUse(t *testing.T) {
	c := newTestChecker(t)
	cases := map[string]Kind{
		"MARKET_bestBid * 2":                   KindNumber,
		"MARKET_negRisk & !MARKET_feesEnabled": KindPredicate,
		"MARKET_updatedAt":                     KindTime,
		"foo":                                  KindInvalid,
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		for in, want := range cases {
			in, want := in, want
			wg.Add(1)
			go func() {
				defer wg.Done()
				if got := c.Kind(in); got != want {
					t.Errorf("Kind(%q) = %s, want %s", in, got, want)
				}
			}()
		}
	}
	wg.Wait()
}
