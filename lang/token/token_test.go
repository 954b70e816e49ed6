package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestTokenStringOutOfRange(t *testing.T) {
	if got := Token(maxToken + 10).String(); got != "illegal token" {
		t.Errorf("want illegal token, got %q", got)
	}
}
