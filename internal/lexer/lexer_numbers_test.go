package lexer

import (
	"testing"

	"github.com/pls-lang/pls/internal/token"
)

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"123", 123},
		{"+5", 5},
		{"-5", -5},
		{"3.14", 3.14},
		{"1e10", 1e10},
		{"1.5e-3", 1.5e-3},
		{"2E+2", 2e2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			l := New(tt.src)
			tok, err := l.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Kind != token.Number {
				t.Fatalf("got kind %v, want Number", tok.Kind)
			}
			if tok.Value != tt.want {
				t.Errorf("got %v, want %v", tok.Value, tt.want)
			}
		})
	}
}

func TestBareSignIsWord(t *testing.T) {
	// A '+' not immediately followed by a digit is an operator word, not
	// the start of a signed number.
	l := New("+(1, 2)")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.Word || tok.Literal != "+" {
		t.Fatalf("got %+v, want Word '+'", tok)
	}
}
