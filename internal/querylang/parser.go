package querylang

import (
	"errors"
	"strconv"
)

// Parser builds an expression tree from tokens.
//
// Grammar (tightest binding first):
//
//	factor     = "(" expr ")" | NUMBER | STRING | TIME | WORD
//	term       = factor { ( "*" | "+" | "-" ) factor }
//	comparison = term { ( "=" | "!=" | ">" | "<" | ">=" | "<=" ) term }
//	operand    = "!" logical | comparison
//	logical    = operand { ( "&" | "|" ) operand }
//	expr       = logical
//
// Every binary level is left-associative. A leading "!" negates the whole
// logical expression that follows it, so "!a & b" is "!(a & b)".
type parser struct {
	tokens []Token
	pos    int
	end    int // byte offset reported for errors at end of input
}

// Parse builds an expression tree that consumes every token.
func Parse(tokens []Token) (Expr, error) {
	p := &parser{tokens: tokens}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		p.end = last.Pos + len(last.Text)
	}

	if len(tokens) == 0 {
		return nil, newSyntaxError(0, ErrEmptyExpression, "empty expression")
	}

	expr, err := p.parseLogical()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, newSyntaxError(tok.Pos, ErrUnexpectedToken, "unexpected token %q", tok.Text)
	}
	return expr, nil
}

// ParseString tokenizes and parses input.
func ParseString(input string, opts ...LexOption) (Expr, error) {
	tokens, err := Tokenize(input, opts...)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// peekOperator returns the operator at the cursor, or "" if the next token is
// not an operator.
func (p *parser) peekOperator() Operator {
	tok, ok := p.peek()
	if !ok || tok.Kind != TokOperator {
		return ""
	}
	return Operator(tok.Text)
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) parseLogical() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for op := p.peekOperator(); op.IsLogical(); op = p.peekOperator() {
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseOperand() (Expr, error) {
	if p.peekOperator() == OpNot {
		p.next()
		operand, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for op := p.peekOperator(); op.IsComparison(); op = p.peekOperator() {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for op := p.peekOperator(); op.IsArithmetic(); op = p.peekOperator() {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, newSyntaxError(p.end, ErrUnexpectedEOF, "expected operand at end of expression")
	}
	p.next()

	switch tok.Kind {
	case TokOperator:
		if tok.Text != "(" {
			return nil, newSyntaxError(tok.Pos, ErrUnexpectedToken, "unexpected token %q, expected operand", tok.Text)
		}
		expr, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		if p.peekOperator() != ")" {
			return nil, newSyntaxError(tok.Pos, ErrMissingParen, "missing closing parenthesis")
		}
		p.next()
		return expr, nil

	case TokNumber:
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, newSyntaxError(tok.Pos, ErrUnexpectedToken, "invalid number %q", tok.Text)
		}
		return &NumberLit{Value: value, Raw: tok.Text}, nil

	case TokString:
		return &StringLit{Value: unquote(tok.Text)}, nil

	case TokTime:
		t, ok := parseTimeLiteral(tok.Text)
		if !ok {
			return nil, newSyntaxError(tok.Pos, ErrUnexpectedToken, "invalid time %q", tok.Text)
		}
		return &TimeLit{Raw: tok.Text, Value: t}, nil

	default:
		return &Ident{Name: tok.Text}, nil
	}
}
