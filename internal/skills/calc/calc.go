// Package calc evaluates arithmetic expressions over +, -, *, /,
// parentheses and decimal numbers with a small recursive-descent
// parser. It exists so that user input is never handed to anything
// resembling a general evaluator.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrDivisionByZero = errors.New("division by zero")

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	p := &parser{input: strings.TrimSpace(expr)}
	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

// expression := term (('+' | '-') term)*
func (p *parser) expression() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.accept('+'):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case p.accept('-'):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.accept('*'):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= r
		case p.accept('/'):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			v /= r
		default:
			return v, nil
		}
	}
}

// unary := ('-' | '+') unary | primary
func (p *parser) unary() (float64, error) {
	p.skipSpaces()
	if p.accept('-') {
		v, err := p.unary()
		return -v, err
	}
	if p.accept('+') {
		return p.unary()
	}
	return p.primary()
}

// primary := number | '(' expression ')'
func (p *parser) primary() (float64, error) {
	p.skipSpaces()
	if p.accept('(') {
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.accept(')') {
			return 0, errors.New("missing closing parenthesis")
		}
		return v, nil
	}
	return p.number()
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(rune(p.input[p.pos])) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		if p.pos >= len(p.input) {
			return 0, errors.New("unexpected end of expression")
		}
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
