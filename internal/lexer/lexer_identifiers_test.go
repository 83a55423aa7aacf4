package lexer

import (
	"testing"

	"github.com/pls-lang/pls/internal/token"
)

func TestWordIdentifiersAreUnrestricted(t *testing.T) {
	// identifiers are not restricted to ASCII letters.
	tests := []string{"+", "-", "*", "/", "==", "!=", "<", ">", "&&", "||", "->", ":=", "café", "λ", "obj.field"}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			l := New(src)
			tok, err := l.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Kind != token.Word {
				t.Fatalf("got kind %v, want Word", tok.Kind)
			}
			if tok.Literal != src {
				t.Errorf("got %q, want %q", tok.Literal, src)
			}
		})
	}
}

func TestUnicodeNormalization(t *testing.T) {
	// "é" as a single precomposed rune vs "e" + combining acute accent
	// must lex to the same normalized Word so they compare equal.
	composed := "café"
	decomposed := "café"

	l1 := New(composed)
	t1, err := l1.Next()
	if err != nil {
		t.Fatal(err)
	}
	l2 := New(decomposed)
	t2, err := l2.Next()
	if err != nil {
		t.Fatal(err)
	}
	if t1.Literal != t2.Literal {
		t.Errorf("expected NFC-normalized forms to match: %q != %q", t1.Literal, t2.Literal)
	}
}
