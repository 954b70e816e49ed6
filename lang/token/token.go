// Package token defines the lexical tokens of the s-expression surface
// syntax and the source positions attached to them for diagnostics.
package token

// A Token represents a lexical token of the surface syntax.
type Token int8

//nolint:revive
const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x, ret, lambda, def
	NUMBER // 123, 1.5

	// OPERATOR covers the fixed operator set the surface grammar accepts at
	// the token level: + - * / ^ ! = < _ %. Not all of these name a
	// builtin; lang/compiler rejects the ones that don't.
	OPERATOR

	LPAREN // (
	RPAREN // )

	maxToken
)

func (tok Token) String() string {
	if tok < 0 || tok >= maxToken {
		return "illegal token"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:  "illegal token",
	EOF:      "end of file",
	IDENT:    "identifier",
	NUMBER:   "number literal",
	OPERATOR: "operator",
	LPAREN:   "(",
	RPAREN:   ")",
}

// Operators is the fixed set of single-character operator tokens accepted
// at the lexical level. Only a subset of these name a registered
// builtin; see lang/compiler.
const Operators = "+-*/^!=<_%"
