package querylang

import (
	"errors"
	"fmt"
)

// Lexer errors.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")
)

// Parser errors.
var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrMissingParen    = errors.New("missing closing parenthesis")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of expression")
)

// Type errors.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrOperandKinds = errors.New("incompatible operand kinds")
	ErrNotOrderable = errors.New("expression is not a number or time")
	ErrNotPredicate = errors.New("expression is not a predicate")
)

// LexError reports input the tokenizer could not match.
type LexError struct {
	Pos  int    // byte offset in input
	Char string // offending text
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %v %q", e.Pos, e.Err, e.Char)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// SyntaxError reports a malformed token sequence.
type SyntaxError struct {
	Pos     int // byte offset of the offending token, or input length at EOF
	Message string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func newSyntaxError(pos int, err error, msgFmt string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos:     pos,
		Message: fmt.Sprintf(msgFmt, args...),
		Err:     err,
	}
}

// TypeError reports the first node that failed type inference.
type TypeError struct {
	Node  Expr
	Kinds []Kind // operand kinds, when the node is an operator
	Err   error
}

func (e *TypeError) Error() string {
	switch n := e.Node.(type) {
	case *Ident:
		return fmt.Sprintf("type error: %v %q", e.Err, n.Name)
	case *Unary:
		return fmt.Sprintf("type error: %v: %s needs predicate, got %s", e.Err, n.Op, kindList(e.Kinds))
	case *Binary:
		return fmt.Sprintf("type error: %v: %s %s %s", e.Err, kindAt(e.Kinds, 0), n.Op, kindAt(e.Kinds, 1))
	default:
		return fmt.Sprintf("type error: %v", e.Err)
	}
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

func kindAt(kinds []Kind, i int) Kind {
	if i < len(kinds) {
		return kinds[i]
	}
	return KindInvalid
}

func kindList(kinds []Kind) string {
	if len(kinds) == 1 {
		return kinds[0].String()
	}
	return fmt.Sprint(kinds)
}
