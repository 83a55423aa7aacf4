package lexer

import "testing"

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"backslash", `"a\\b"`, `a\b`},
		{"quote", `"a\"b"`, `a"b`},
		{"unicode", `"\u0041"`, "A"},
		{"single quotes", `'hello'`, "hello"},
		{"mixed delims not consumed", `"it's"`, "it's"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.src)
			tok, err := l.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Literal != tt.want {
				t.Errorf("got %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}
