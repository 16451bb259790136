package querylang

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Operator is an operator symbol.
type Operator string

// Operators, grouped by precedence level from tightest to loosest.
const (
	OpMul Operator = "*"
	OpAdd Operator = "+"
	OpSub Operator = "-"

	OpEq  Operator = "="
	OpNeq Operator = "!="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
	OpGte Operator = ">="
	OpLte Operator = "<="

	OpNot Operator = "!"
	OpAnd Operator = "&"
	OpOr  Operator = "|"
)

// IsArithmetic reports whether op is + - or *.
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpMul, OpAdd, OpSub:
		return true
	}
	return false
}

// IsComparison reports whether op is one of the six comparison operators.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte:
		return true
	}
	return false
}

// IsLogical reports whether op is & or |.
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// Expr is a node of the expression tree. The set of node types is closed:
// NumberLit, StringLit, TimeLit, Ident, Unary and Binary.
type Expr interface {
	// String renders the node in canonical form. Binary and unary nodes are
	// parenthesised so the output re-parses to the same tree.
	String() string
	exprNode()
}

// NumberLit is a numeric literal. Raw is the literal as written; a value
// too large for float64 is +Inf and renders as Raw.
type NumberLit struct {
	Value float64
	Raw   string
}

// StringLit is a string literal with the quotes removed.
type StringLit struct {
	Value string
}

// TimeLit is an @-prefixed ISO calendar date or timestamp literal. Raw keeps
// the prefix.
type TimeLit struct {
	Raw   string
	Value time.Time
}

// Ident is a bare field name.
type Ident struct {
	Name string
}

// Unary is a prefix operator applied to one operand. Only ! is unary.
type Unary struct {
	Op      Operator
	Operand Expr
}

// Binary is an infix operator with two operands.
type Binary struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*TimeLit) exprNode()   {}
func (*Ident) exprNode()     {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}

func (n *NumberLit) String() string {
	if math.IsInf(n.Value, 0) && n.Raw != "" {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n *StringLit) String() string {
	return `"` + strings.ReplaceAll(n.Value, `"`, `\"`) + `"`
}

func (n *TimeLit) String() string {
	return n.Raw
}

func (n *Ident) String() string {
	return n.Name
}

func (n *Unary) String() string {
	return string(n.Op) + "(" + n.Operand.String() + ")"
}

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + string(n.Op) + " " + n.Right.String() + ")"
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Unary:
		Walk(n.Operand, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}

// Fields returns the distinct identifiers referenced by e, in first-seen order.
func Fields(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(e, func(n Expr) bool {
		if id, ok := n.(*Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			names = append(names, id.Name)
		}
		return true
	})
	return names
}
