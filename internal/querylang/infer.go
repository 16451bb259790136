package querylang

import (
	"tokq/internal/catalog"
)

// Kind is the semantic type inferred for an expression.
type Kind = catalog.Kind

// Kinds re-exported for callers that only import this package.
const (
	KindInvalid   = catalog.KindInvalid
	KindNumber    = catalog.KindNumber
	KindTime      = catalog.KindTime
	KindString    = catalog.KindString
	KindPredicate = catalog.KindPredicate
)

// Infer assigns a kind to expr bottom-up. It returns KindInvalid and a
// *TypeError describing the first failing node when expr is not well typed.
func (c *Checker) Infer(expr Expr) (Kind, error) {
	switch n := expr.(type) {
	case *NumberLit:
		return catalog.KindNumber, nil

	case *StringLit:
		return catalog.KindString, nil

	case *TimeLit:
		return catalog.KindTime, nil

	case *Ident:
		kind, ok := c.catalog.Lookup(n.Name)
		if !ok {
			return catalog.KindInvalid, &TypeError{Node: n, Err: ErrUnknownField}
		}
		return kind, nil

	case *Unary:
		operand, err := c.Infer(n.Operand)
		if err != nil {
			return catalog.KindInvalid, err
		}
		if n.Op == OpNot && operand == catalog.KindPredicate {
			return catalog.KindPredicate, nil
		}
		return catalog.KindInvalid, &TypeError{Node: n, Kinds: []Kind{operand}, Err: ErrOperandKinds}

	case *Binary:
		left, err := c.Infer(n.Left)
		if err != nil {
			return catalog.KindInvalid, err
		}
		right, err := c.Infer(n.Right)
		if err != nil {
			return catalog.KindInvalid, err
		}
		if kind := binaryResult(n.Op, left, right); kind != catalog.KindInvalid {
			return kind, nil
		}
		return catalog.KindInvalid, &TypeError{Node: n, Kinds: []Kind{left, right}, Err: ErrOperandKinds}

	default:
		return catalog.KindInvalid, &TypeError{Node: expr, Err: ErrOperandKinds}
	}
}

// binaryResult applies the operator typing rules.
func binaryResult(op Operator, left, right Kind) Kind {
	switch {
	case op.IsArithmetic():
		if left == catalog.KindNumber && right == catalog.KindNumber {
			return catalog.KindNumber
		}
	case op.IsComparison():
		// Numbers and times compare with each other.
		if left == right || (left.Orderable() && right.Orderable()) {
			return catalog.KindPredicate
		}
	case op.IsLogical():
		if left == catalog.KindPredicate && right == catalog.KindPredicate {
			return catalog.KindPredicate
		}
	}
	return catalog.KindInvalid
}
