package pricing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Placeholders recognised inside WooCommerce shipping cost formulas.
const (
	placeholderQty  = "[qty]"
	placeholderCost = "[cost]"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrEmptyFormula   = errors.New("formula is empty")
)

type formulaVars struct {
	qty  decimal.Decimal
	cost decimal.Decimal
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOperator
	tokenLParen
	tokenRParen
	tokenQty
	tokenCost
	tokenEOF
)

type token struct {
	kind  tokenKind
	op    byte
	value decimal.Decimal
	pos   int
}

// evalFormula evaluates a cost formula made of decimal literals, + - * /, unary minus,
// parentheses and the [qty] / [cost] placeholders. Anything else is a syntax error.
func evalFormula(formula string, vars formulaVars) (decimal.Decimal, error) {
	tokens, err := tokenize(formula)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tokenize: %w", err)
	}
	if len(tokens) == 1 {
		return decimal.Zero, ErrEmptyFormula
	}

	p := &formulaParser{tokens: tokens, vars: vars}

	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}

	if next := p.peek(); next.kind != tokenEOF {
		return decimal.Zero, fmt.Errorf("unexpected token at %d", next.pos)
	}

	return result, nil
}

func tokenize(s string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokenOperator, op: c, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, pos: i})
			i++
		case c == '[':
			rest := strings.ToLower(s[i:])
			switch {
			case strings.HasPrefix(rest, placeholderQty):
				tokens = append(tokens, token{kind: tokenQty, pos: i})
				i += len(placeholderQty)
			case strings.HasPrefix(rest, placeholderCost):
				tokens = append(tokens, token{kind: tokenCost, pos: i})
				i += len(placeholderCost)
			default:
				return nil, fmt.Errorf("unsupported shortcode at %d", i)
			}
		case isDigit(c) || c == '.':
			end := i + numberPrefixLen(s[i:])
			value, err := decimal.NewFromString(s[i:end])
			if err != nil {
				return nil, fmt.Errorf("number at %d: %w", i, err)
			}
			tokens = append(tokens, token{kind: tokenNumber, value: value, pos: i})
			i = end
		default:
			return nil, fmt.Errorf("unexpected character %q at %d", c, i)
		}
	}

	return append(tokens, token{kind: tokenEOF, pos: len(s)}), nil
}

type formulaParser struct {
	tokens []token
	pos    int
	vars   formulaVars
}

func (p *formulaParser) peek() token {
	return p.tokens[p.pos]
}

func (p *formulaParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// expr := term { ("+" | "-") term }
func (p *formulaParser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.op != '+' && t.op != '-') {
			return left, nil
		}
		p.next()

		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}

		if t.op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

// term := unary { ("*" | "/") unary }
func (p *formulaParser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.op != '*' && t.op != '/') {
			return left, nil
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}

		if t.op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.Div(right)
	}
}

// unary := "-" unary | primary
func (p *formulaParser) parseUnary() (decimal.Decimal, error) {
	if t := p.peek(); t.kind == tokenOperator && t.op == '-' {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	}
	return p.parsePrimary()
}

// primary := number | "[qty]" | "[cost]" | "(" expr ")"
func (p *formulaParser) parsePrimary() (decimal.Decimal, error) {
	t := p.next()

	switch t.kind {
	case tokenNumber:
		return t.value, nil
	case tokenQty:
		return p.vars.qty, nil
	case tokenCost:
		return p.vars.cost, nil
	case tokenLParen:
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis at %d", closing.pos)
		}
		return v, nil
	case tokenEOF:
		return decimal.Zero, fmt.Errorf("unexpected end of formula")
	default:
		return decimal.Zero, fmt.Errorf("unexpected token at %d", t.pos)
	}
}

// parseLeadingNumber mimics a lenient float parse: it reads the longest numeric prefix
// of s (after leading spaces) and returns zero when there is none.
func parseLeadingNumber(s string) decimal.Decimal {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	n := numberPrefixLen(s)
	if n == 0 {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(sign + strings.TrimSuffix(s[:n], "."))
	if err != nil {
		return decimal.Zero
	}

	return value
}

// numberPrefixLen returns the length of the leading "digits[.digits]" run in s.
func numberPrefixLen(s string) int {
	n := 0
	seenDot := false
	seenDigit := false

	for n < len(s) {
		c := s[n]
		switch {
		case isDigit(c):
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		default:
			if !seenDigit {
				return 0
			}
			return n
		}
		n++
	}

	if !seenDigit {
		return 0
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
