package scanner_test

import (
	"testing"

	"github.com/mna/tinycps/lang/scanner"
	"github.com/mna/tinycps/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []scanner.TokenAndValue {
	t.Helper()
	f := token.NewFile("test")
	toks, err := scanner.ScanAll(f, []byte(src))
	require.NoError(t, err)
	return toks
}

func TestScanBasic(t *testing.T) {
	toks := scanAll(t, "(def main (ret) (ret 42))")
	var kinds []token.Token
	for _, tv := range toks {
		kinds = append(kinds, tv.Token)
	}
	want := []token.Token{
		token.LPAREN, token.IDENT, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN,
		token.LPAREN, token.IDENT, token.NUMBER, token.RPAREN, token.RPAREN, token.EOF,
	}
	require.Equal(t, want, kinds)
}

func TestScanNumber(t *testing.T) {
	toks := scanAll(t, "1.5 10 0.25")
	require.Len(t, toks, 4) // 3 numbers + EOF
	for _, tv := range toks[:3] {
		require.Equal(t, token.NUMBER, tv.Token)
	}
	require.Equal(t, "1.5", toks[0].Lit)
	require.Equal(t, "10", toks[1].Lit)
	require.Equal(t, "0.25", toks[2].Lit)
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(t, "+ - * / ^ ! = < _ %")
	require.Len(t, toks, 11) // 10 operators + EOF
	for _, tv := range toks[:10] {
		require.Equal(t, token.OPERATOR, tv.Token)
	}
}

func TestScanIllegalCharacter(t *testing.T) {
	f := token.NewFile("test")
	_, err := scanner.ScanAll(f, []byte("(foo @)"))
	require.Error(t, err)
	var serr *scanner.Error
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Error(), "@")
}

func TestScanIdentifierWithDigits(t *testing.T) {
	toks := scanAll(t, "x1 fact2")
	require.Equal(t, "x1", toks[0].Lit)
	require.Equal(t, "fact2", toks[1].Lit)
}
