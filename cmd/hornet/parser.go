package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"hornet/internal/smt"
)

// parseExpr parses the infix rule notation of problem files into an smt
// expression. resolve maps a bare identifier to its expression (a declared
// variable); identifiers followed by an argument list become predicate
// applications. Parsing text is CLI glue — the solver core only ever sees
// smt.Expression values.
func parseExpr(input string, resolve func(name string) (smt.Expression, bool)) (smt.Expression, error) {
	p := &parser{resolve: resolve}
	if err := p.tokenize(input); err != nil {
		return smt.Expression{}, err
	}
	expr, err := p.implication()
	if err != nil {
		return smt.Expression{}, err
	}
	if p.pos != len(p.tokens) {
		return smt.Expression{}, fmt.Errorf("unexpected %q after expression", p.tokens[p.pos])
	}
	return expr, nil
}

type parser struct {
	tokens  []string
	pos     int
	resolve func(string) (smt.Expression, bool)
}

var operators = []string{"=>", "&&", "||", "<=", ">=", "!=", "(", ")", ",", "+", "-", "*", "<", ">", "=", "!"}

func (p *parser) tokenize(input string) error {
	s := input
	for len(s) > 0 {
		r := rune(s[0])
		switch {
		case unicode.IsSpace(r):
			s = s[1:]
		case unicode.IsDigit(r):
			i := 1
			for i < len(s) && unicode.IsDigit(rune(s[i])) {
				i++
			}
			p.tokens = append(p.tokens, s[:i])
			s = s[i:]
		case unicode.IsLetter(r) || r == '_':
			i := 1
			for i < len(s) && (unicode.IsLetter(rune(s[i])) || unicode.IsDigit(rune(s[i])) || s[i] == '_') {
				i++
			}
			p.tokens = append(p.tokens, s[:i])
			s = s[i:]
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(s, op) {
					p.tokens = append(p.tokens, op)
					s = s[len(op):]
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Errorf("unexpected character %q in expression", r)
			}
		}
	}
	return nil
}

func (p *parser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *parser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("expected %q, found %q", tok, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) implication() (smt.Expression, error) {
	left, err := p.disjunction()
	if err != nil {
		return left, err
	}
	if p.peek() == "=>" {
		p.next()
		right, err := p.implication()
		if err != nil {
			return right, err
		}
		return smt.Implies(left, right), nil
	}
	return left, nil
}

func (p *parser) disjunction() (smt.Expression, error) {
	left, err := p.conjunction()
	if err != nil {
		return left, err
	}
	for p.peek() == "||" {
		p.next()
		right, err := p.conjunction()
		if err != nil {
			return right, err
		}
		left = smt.Or(left, right)
	}
	return left, nil
}

func (p *parser) conjunction() (smt.Expression, error) {
	left, err := p.comparison()
	if err != nil {
		return left, err
	}
	for p.peek() == "&&" {
		p.next()
		right, err := p.comparison()
		if err != nil {
			return right, err
		}
		left = smt.And(left, right)
	}
	return left, nil
}

func (p *parser) comparison() (smt.Expression, error) {
	left, err := p.additive()
	if err != nil {
		return left, err
	}
	op := p.peek()
	switch op {
	case "<", "<=", ">", ">=", "=", "!=":
		p.next()
		right, err := p.additive()
		if err != nil {
			return right, err
		}
		switch op {
		case "<":
			return smt.Lt(left, right), nil
		case "<=":
			return smt.Leq(left, right), nil
		case ">":
			return smt.Gt(left, right), nil
		case ">=":
			return smt.Geq(left, right), nil
		case "=":
			return smt.Eq(left, right), nil
		default:
			return smt.Not(smt.Eq(left, right)), nil
		}
	}
	return left, nil
}

func (p *parser) additive() (smt.Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return left, err
	}
	for p.peek() == "+" || p.peek() == "-" {
		op := p.next()
		right, err := p.multiplicative()
		if err != nil {
			return right, err
		}
		if op == "+" {
			left = smt.Plus(left, right)
		} else {
			left = smt.Minus(left, right)
		}
	}
	return left, nil
}

func (p *parser) multiplicative() (smt.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return left, err
	}
	for p.peek() == "*" {
		p.next()
		right, err := p.unary()
		if err != nil {
			return right, err
		}
		left = smt.Mul(left, right)
	}
	return left, nil
}

func (p *parser) unary() (smt.Expression, error) {
	switch p.peek() {
	case "!":
		p.next()
		inner, err := p.unary()
		if err != nil {
			return inner, err
		}
		return smt.Not(inner), nil
	case "-":
		p.next()
		inner, err := p.unary()
		if err != nil {
			return inner, err
		}
		if v, ok := inner.AsNumeral(); ok {
			return smt.Numeral(-v), nil
		}
		return smt.Minus(smt.Numeral(0), inner), nil
	}
	return p.primary()
}

func (p *parser) primary() (smt.Expression, error) {
	tok := p.next()
	switch {
	case tok == "":
		return smt.Expression{}, fmt.Errorf("unexpected end of expression")
	case tok == "(":
		inner, err := p.implication()
		if err != nil {
			return inner, err
		}
		return inner, p.expect(")")
	case tok == "true":
		return smt.True(), nil
	case tok == "false":
		return smt.False(), nil
	case unicode.IsDigit(rune(tok[0])):
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return smt.Expression{}, fmt.Errorf("invalid numeral %q: %w", tok, err)
		}
		return smt.Numeral(v), nil
	default:
		if p.peek() == "(" {
			p.next()
			var args []smt.Expression
			if p.peek() != ")" {
				for {
					arg, err := p.implication()
					if err != nil {
						return arg, err
					}
					args = append(args, arg)
					if p.peek() != "," {
						break
					}
					p.next()
				}
			}
			if err := p.expect(")"); err != nil {
				return smt.Expression{}, err
			}
			return smt.App(tok, args...), nil
		}
		expr, ok := p.resolve(tok)
		if !ok {
			return smt.Expression{}, fmt.Errorf("unknown identifier %q", tok)
		}
		return expr, nil
	}
}
