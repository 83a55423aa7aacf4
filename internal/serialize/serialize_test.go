package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/interp"
	"github.com/pls-lang/pls/internal/parser"
)

func TestSerializeValueWord(t *testing.T) {
	node := &ast.Call{
		Operator: &ast.Word{Name: "println"},
		Args:     []ast.Node{&ast.Value{Literal: float64(1)}, &ast.Value{Literal: "hi"}},
	}
	doc, err := Serialize(node)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.Contains(doc, `"type": "Call"`) {
		t.Errorf("expected a Call discriminator in:\n%s", doc)
	}

	back, err := Deserialize([]byte(doc))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	call, ok := back.(*ast.Call)
	if !ok {
		t.Fatalf("got %T, want *ast.Call", back)
	}
	w, ok := call.Operator.(*ast.Word)
	if !ok || w.Name != "println" {
		t.Fatalf("operator = %v, want Word(println)", call.Operator)
	}
	if len(call.Args) != 2 {
		t.Fatalf("len(Args) = %d, want 2", len(call.Args))
	}
	v0 := call.Args[0].(*ast.Value)
	if v0.Literal != float64(1) {
		t.Errorf("Args[0].Literal = %v, want 1", v0.Literal)
	}
	v1 := call.Args[1].(*ast.Value)
	if v1.Literal != "hi" {
		t.Errorf("Args[1].Literal = %v, want %q", v1.Literal, "hi")
	}
}

// TestRoundTripEvaluatesIdentically checks the round-trip law:
// evaluate(parse(source)) == evaluate(deserialize(serialize(parse(source)))).
func TestRoundTripEvaluatesIdentically(t *testing.T) {
	src := `do( let(x, 1), let(y, 2), println(+(x, y)), +(x, y) )`

	original, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	doc, err := Serialize(original)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	restored, err := Deserialize([]byte(doc))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	var out1, out2 bytes.Buffer
	v1, err := interp.New(&out1).Run(original)
	if err != nil {
		t.Fatalf("eval original: %v", err)
	}
	v2, err := interp.New(&out2).Run(restored)
	if err != nil {
		t.Fatalf("eval restored: %v", err)
	}

	if out1.String() != out2.String() {
		t.Errorf("stdout mismatch: %q vs %q", out1.String(), out2.String())
	}
	if !interp.Equal(v1, v2) {
		t.Errorf("result mismatch: %v vs %v", v1, v2)
	}
}

func TestDeserializeRejectsUnknownType(t *testing.T) {
	_, err := Deserialize([]byte(`{"type": "Bogus"}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized node type")
	}
}

func TestDeserializeRejectsInvalidJSON(t *testing.T) {
	_, err := Deserialize([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}
