// Package querylang tokenizes, parses and type-checks order and filter
// expressions over a field catalog.
package querylang

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokOperator TokenKind = iota // punctuation and operators
	TokNumber                    // 12, 3.5
	TokString                    // "text", quotes retained
	TokTime                      // @2024-01-15, @2024-01-15T10:30:00Z
	TokWord                      // identifier candidate
)

func (k TokenKind) String() string {
	switch k {
	case TokOperator:
		return "OPERATOR"
	case TokNumber:
		return "NUMBER"
	case TokString:
		return "STRING"
	case TokTime:
		return "TIME"
	case TokWord:
		return "WORD"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexeme with its exact source text.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset in input
}

// lexRule matches one lexical class at the start of the remaining input.
type lexRule struct {
	kind    TokenKind
	pattern *regexp.Regexp
	accept  func(text string) bool
}

// Rules in priority order; the first match at a position wins. Two-character
// comparisons come before the single characters so that "!=" is one token.
var lexRules = []lexRule{
	{kind: TokOperator, pattern: regexp.MustCompile(`^(?:>=|<=|!=)`)},
	{kind: TokOperator, pattern: regexp.MustCompile(`^[()!&|+\-*]`)},
	{kind: TokOperator, pattern: regexp.MustCompile(`^[=><]`)},
	{kind: TokTime, pattern: timeLiteralPattern, accept: isTimeLiteral},
	{kind: TokNumber, pattern: regexp.MustCompile(`^\d+(?:\.\d+)?`)},
	{kind: TokString, pattern: regexp.MustCompile(`^"(?:\\"|[^"])*"`)},
	{kind: TokWord, pattern: regexp.MustCompile(`^\w+`)},
}

type lexConfig struct {
	permissive bool
}

// LexOption configures Tokenize.
type LexOption func(*lexConfig)

// WithPermissiveLexing makes the tokenizer skip characters that match no
// rule instead of failing.
func WithPermissiveLexing() LexOption {
	return func(c *lexConfig) {
		c.permissive = true
	}
}

// Tokenize splits input into tokens.
func Tokenize(input string, opts ...LexOption) ([]Token, error) {
	var cfg lexConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var tokens []Token
	pos := 0
	for {
		pos = skipSpace(input, pos)
		if pos >= len(input) {
			return tokens, nil
		}

		tok, ok := matchRule(input, pos)
		if ok {
			tokens = append(tokens, tok)
			pos += len(tok.Text)
			continue
		}

		_, size := utf8.DecodeRuneInString(input[pos:])
		if !cfg.permissive {
			err := ErrUnexpectedChar
			if input[pos] == '"' {
				err = ErrUnterminatedString
			}
			return nil, &LexError{Pos: pos, Char: input[pos : pos+size], Err: err}
		}
		pos += size
	}
}

func matchRule(input string, pos int) (Token, bool) {
	rest := input[pos:]
	for _, rule := range lexRules {
		text := rule.pattern.FindString(rest)
		if text == "" {
			continue
		}
		if rule.accept != nil && !rule.accept(text) {
			continue
		}
		return Token{Kind: rule.kind, Text: text, Pos: pos}, true
	}
	return Token{}, false
}

func skipSpace(input string, pos int) int {
	for pos < len(input) {
		switch input[pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// unquote strips the surrounding quotes of a string token and resolves
// escaped quotes.
func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, `\"`, `"`)
}
