package store

import "tokq/internal/catalog"

// Logger is the logging surface the store needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Validator checks and canonicalises the expressions of a view before it is
// written. *querylang.Checker satisfies it.
type Validator interface {
	ValidateOrder(input string) error
	ValidateFilter(input string) error
	Normalize(input string) (string, error)
	OrderKind(input string) catalog.Kind
}
