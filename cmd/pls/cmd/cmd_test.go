package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/parser"
)

func TestFormatSourceReturnsReparsableCanonicalForm(t *testing.T) {
	out, err := formatSource(`+(1,2)`)
	if err != nil {
		t.Fatalf("formatSource: %v", err)
	}
	if out != "+(1, 2)\n" {
		t.Errorf("got %q", out)
	}
}

func TestFormatSourceRejectsInvalidSyntax(t *testing.T) {
	if _, err := formatSource(`f(1 2)`); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFormatFileWriteModeOverwritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.pls")
	if err := os.WriteFile(path, []byte(`+(1,2)`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fmtWrite = true
	defer func() { fmtWrite = false }()

	if err := formatFile(path); err != nil {
		t.Fatalf("formatFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "+(1, 2)\n" {
		t.Errorf("file contents = %q", string(got))
	}
}

func TestCompileThenInterpretRoundTripViaFiles(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "script.pls")
	if err := os.WriteFile(srcPath, []byte(`do( let(x, 1), let(y, 2), +(x, y) )`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	compileOutput = ""
	if err := compileScript(nil, []string{srcPath}); err != nil {
		t.Fatalf("compileScript: %v", err)
	}

	cplsPath := filepath.Join(dir, "script.cpls")
	if _, err := os.Stat(cplsPath); err != nil {
		t.Fatalf("expected %s to exist: %v", cplsPath, err)
	}

	if err := interpretFile(nil, []string{cplsPath}); err != nil {
		t.Fatalf("interpretFile: %v", err)
	}
}

func TestOperatorNameForWordAndNestedCall(t *testing.T) {
	// a direct Word case and a nested-Call-as-operator case (where String()
	// is used as a fallback).
	if formatted, err := formatSource(`println(1)`); err != nil || formatted == "" {
		t.Fatalf("formatSource: %v", err)
	}

	word, err := parser.Parse(`println(1)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := operatorName(word.(*ast.Call).Operator); got != "println" {
		t.Errorf("operatorName(Word) = %q, want %q", got, "println")
	}

	nested, err := parser.Parse(`f(x)(y)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := operatorName(nested.(*ast.Call).Operator); got != "f(x)" {
		t.Errorf("operatorName(Call) = %q, want %q", got, "f(x)")
	}
}
