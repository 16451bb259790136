package catalog

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a field or of an expression.
type Kind int

const (
	// KindInvalid marks the absence of a valid type.
	KindInvalid Kind = iota
	// KindNumber is a numeric value.
	KindNumber
	// KindTime is a point in time.
	KindTime
	// KindString is a text value.
	KindString
	// KindPredicate is a boolean filter condition.
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	case KindPredicate:
		return "predicate"
	default:
		return "invalid"
	}
}

// ParseKind converts a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number", "numeric":
		return KindNumber, nil
	case "time":
		return KindTime, nil
	case "string":
		return KindString, nil
	case "predicate", "bool", "boolean":
		return KindPredicate, nil
	default:
		return KindInvalid, fmt.Errorf("unknown kind: %q", s)
	}
}

// Kinds lists the valid kinds in catalog order.
func Kinds() []Kind {
	return []Kind{KindNumber, KindTime, KindString, KindPredicate}
}

// Orderable reports whether values of this kind can rank records.
func (k Kind) Orderable() bool {
	return k == KindNumber || k == KindTime
}
