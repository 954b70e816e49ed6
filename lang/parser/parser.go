// Package parser reads the token stream produced by lang/scanner into
// Form values: the untyped, s-expression-shaped reader output that
// lang/lower turns into a CPS ast.Module.
package parser

import (
	"fmt"

	"github.com/mna/tinycps/lang/scanner"
	"github.com/mna/tinycps/lang/token"
)

// A Form is either an Atom (an identifier, number, or operator token) or a
// List of nested forms delimited by parentheses. It is the direct
// equivalent of the nested Python lists produced by the original
// tinycps.sexp_parser grammar.
type Form struct {
	Atom string // non-empty for an atom; "" and Items non-nil for a list
	Items []Form
	Pos   token.Pos
}

// IsAtom reports whether f is an atom rather than a list.
func (f Form) IsAtom() bool { return f.Items == nil }

func (f Form) String() string {
	if f.IsAtom() {
		return f.Atom
	}
	s := "("
	for i, it := range f.Items {
		if i > 0 {
			s += " "
		}
		s += it.String()
	}
	return s + ")"
}

// Error is a syntax error produced while reading forms.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser reads a token stream into top-level Forms.
type Parser struct {
	toks []scanner.TokenAndValue
	pos  int
}

// ParseAll scans and parses src in full, returning the top-level forms.
func ParseAll(file *token.File, src []byte) ([]Form, error) {
	toks, err := scanner.ScanAll(file, src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseTop()
}

func (p *Parser) cur() scanner.TokenAndValue { return p.toks[p.pos] }

func (p *Parser) advance() { p.pos++ }

func (p *Parser) parseTop() ([]Form, error) {
	var forms []Form
	for p.cur().Token != token.EOF {
		f, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func (p *Parser) parseForm() (Form, error) {
	tv := p.cur()
	switch tv.Token {
	case token.IDENT, token.NUMBER, token.OPERATOR:
		p.advance()
		return Form{Atom: tv.Lit, Pos: tv.Pos}, nil

	case token.LPAREN:
		start := tv.Pos
		p.advance()
		var items []Form
		for p.cur().Token != token.RPAREN {
			if p.cur().Token == token.EOF {
				return Form{}, &Error{Pos: start, Msg: "unterminated list: missing ')'"}
			}
			f, err := p.parseForm()
			if err != nil {
				return Form{}, err
			}
			items = append(items, f)
		}
		p.advance() // consume ')'
		if items == nil {
			items = []Form{}
		}
		return Form{Items: items, Pos: start}, nil

	case token.RPAREN:
		return Form{}, &Error{Pos: tv.Pos, Msg: "unexpected ')'"}

	default:
		return Form{}, &Error{Pos: tv.Pos, Msg: "unexpected end of input"}
	}
}
