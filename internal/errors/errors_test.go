package errors

import (
	"strings"
	"testing"

	"github.com/pls-lang/pls/internal/lexer"
	"github.com/pls-lang/pls/internal/parser"
	"github.com/pls-lang/pls/internal/token"
)

func TestFormatIncludesCaret(t *testing.T) {
	src := "f(1 2)"
	err := New(Syntax, token.Position{Line: 1, Column: 5}, "Expected ',' or ')'").WithSource(src, "test.pls")
	out := err.Format(false)
	if !strings.Contains(out, "^") {
		t.Fatalf("expected caret in output:\n%s", out)
	}
	if !strings.Contains(out, "Expected ',' or ')'") {
		t.Fatalf("expected message in output:\n%s", out)
	}
}

func TestErrorKindPrefix(t *testing.T) {
	err := New(Reference, token.Position{Line: 1, Column: 1}, "Undefined binding: x")
	if !strings.HasPrefix(err.Error(), "ReferenceError") {
		t.Errorf("got %q", err.Error())
	}
}

func TestFromLexErrorWrapsSyntaxKind(t *testing.T) {
	src := `"unterminated`
	_, err := parser.Parse(src)
	if err == nil {
		t.Fatal("expected a lex/parse failure")
	}
	var ce *CompilerError
	if le, ok := err.(*lexer.Error); ok {
		ce = FromLexError(le, src, "test.pls")
	} else {
		ce = FromParseError(err, src, "test.pls")
	}
	if ce == nil {
		t.Fatalf("expected a wrapped CompilerError, got nil from %T", err)
	}
	if ce.Kind != Syntax {
		t.Errorf("Kind = %v, want Syntax", ce.Kind)
	}
	if ce.Source != src {
		t.Errorf("Source not attached")
	}
}

func TestFromParseErrorWrapsSyntaxKind(t *testing.T) {
	src := `f(1 2)`
	_, err := parser.Parse(src)
	if err == nil {
		t.Fatal("expected a parse failure")
	}
	ce := FromParseError(err, src, "test.pls")
	if ce == nil {
		t.Fatalf("expected a wrapped CompilerError, got nil from %T", err)
	}
	if ce.Kind != Syntax {
		t.Errorf("Kind = %v, want Syntax", ce.Kind)
	}
	if !strings.Contains(ce.Format(false), "Expected ',' or ')'") {
		t.Errorf("Format output missing message: %s", ce.Format(false))
	}
}

func TestFromLexErrorReturnsNilForOtherErrorTypes(t *testing.T) {
	if got := FromLexError(&parser.Error{Message: "x"}, "", ""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
