// Package scanner tokenizes the s-expression surface syntax: identifiers,
// decimal numerals, the fixed operator set, and parentheses.
package scanner

import (
	"fmt"

	"github.com/mna/tinycps/lang/token"
)

// Error is a lexical error, with the position at which it occurred.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// TokenAndValue combines a token with the literal text it was scanned from.
type TokenAndValue struct {
	Token token.Token
	Lit   string
	Pos   token.Pos
}

// Scanner tokenizes one source buffer.
type Scanner struct {
	file *token.File
	src  []byte

	off int  // byte offset of cur
	cur byte // current character, 0 at EOF
}

// Init resets the scanner to tokenize src, recording line starts in file.
func (s *Scanner) Init(file *token.File, src []byte) {
	s.file = file
	s.src = src
	s.off = -1
	s.advance()
}

func (s *Scanner) advance() {
	s.off++
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	if s.off >= len(s.src) {
		s.cur = 0
		return
	}
	s.cur = s.src[s.off]
}

func (s *Scanner) peek() byte {
	if s.off+1 >= len(s.src) {
		return 0
	}
	return s.src[s.off+1]
}

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }
func isAlpha(b byte) bool      { return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' }
func isDigit(b byte) bool      { return '0' <= b && b <= '9' }
func isOperator(b byte) bool {
	for i := 0; i < len(token.Operators); i++ {
		if token.Operators[i] == b {
			return true
		}
	}
	return false
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.cur) {
		s.advance()
	}
}

// Scan returns the next token, its literal text, and its position. It
// returns token.EOF once the source is exhausted, and keeps returning it on
// further calls.
func (s *Scanner) Scan() (TokenAndValue, error) {
	s.skipWhitespace()
	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case cur == 0:
		return TokenAndValue{Token: token.EOF, Pos: pos}, nil

	case cur == '(':
		s.advance()
		return TokenAndValue{Token: token.LPAREN, Lit: "(", Pos: pos}, nil

	case cur == ')':
		s.advance()
		return TokenAndValue{Token: token.RPAREN, Lit: ")", Pos: pos}, nil

	case isAlpha(cur):
		for isAlpha(s.cur) || isDigit(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		return TokenAndValue{Token: token.IDENT, Lit: lit, Pos: pos}, nil

	case isDigit(cur):
		for isDigit(s.cur) {
			s.advance()
		}
		if s.cur == '.' && isDigit(s.peek()) {
			s.advance()
			for isDigit(s.cur) {
				s.advance()
			}
		}
		lit := string(s.src[start:s.off])
		return TokenAndValue{Token: token.NUMBER, Lit: lit, Pos: pos}, nil

	case isOperator(cur):
		s.advance()
		return TokenAndValue{Token: token.OPERATOR, Lit: string(cur), Pos: pos}, nil

	default:
		s.advance() // always make progress
		return TokenAndValue{}, &Error{Pos: pos, Msg: fmt.Sprintf("illegal character %q", cur)}
	}
}

// ScanAll tokenizes src in full, stopping at the first error or at EOF
// (EOF is included as the final token on success).
func ScanAll(file *token.File, src []byte) ([]TokenAndValue, error) {
	var s Scanner
	s.Init(file, src)
	var toks []TokenAndValue
	for {
		tv, err := s.Scan()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tv)
		if tv.Token == token.EOF {
			return toks, nil
		}
	}
}
