package optimizer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/interp"
	"github.com/pls-lang/pls/internal/parser"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return node
}

// runOptimized parses src, runs it through Optimize, and evaluates the
// rewritten tree, returning the result and captured stdout.
func runOptimized(t *testing.T, src string, opts ...Option) (interp.Value, string) {
	t.Helper()
	node := mustParse(t, src)
	optimized := Optimize(node, opts...)
	var out bytes.Buffer
	ev := interp.New(&out)
	v, err := ev.Run(optimized)
	if err != nil {
		t.Fatalf("eval of optimized tree failed: %v", err)
	}
	return v, out.String()
}

// TestConstantFoldScenario checks that println(+(1, 2)) folds its argument
// to a single literal Value(3) before evaluation.
func TestConstantFoldScenario(t *testing.T) {
	node := mustParse(t, `println(+(1, 2))`)
	optimized := Optimize(node)

	call, ok := optimized.(*ast.Call)
	if !ok {
		t.Fatalf("optimized root = %T, want *ast.Call", optimized)
	}
	if len(call.Args) != 1 {
		t.Fatalf("len(Args) = %d, want 1", len(call.Args))
	}
	folded, ok := call.Args[0].(*ast.Value)
	if !ok {
		t.Fatalf("Args[0] = %T, want *ast.Value (folded)", call.Args[0])
	}
	if folded.Literal != float64(3) {
		t.Fatalf("folded literal = %v, want 3", folded.Literal)
	}

	v, out := runOptimized(t, `println(+(1, 2))`)
	if out != "3\n" {
		t.Errorf("stdout = %q, want %q", out, "3\n")
	}
	arr, ok := v.(*interp.Array)
	if !ok || len(arr.Elems) != 1 || arr.Elems[0] != interp.Number(3) {
		t.Fatalf("result = %v, want single-element array [3]", v)
	}
}

func TestConstantFoldNestedExpression(t *testing.T) {
	node := mustParse(t, `*(+(1, 2), 4)`)
	optimized := Optimize(node)
	v, ok := optimized.(*ast.Value)
	if !ok {
		t.Fatalf("optimized = %T, want folded *ast.Value", optimized)
	}
	if v.Literal != float64(12) {
		t.Fatalf("folded literal = %v, want 12", v.Literal)
	}
}

func TestConstantFoldCanBeDisabled(t *testing.T) {
	node := mustParse(t, `+(1, 2)`)
	optimized := Optimize(node, WithPass(PassConstantFold, false))
	if _, ok := optimized.(*ast.Value); ok {
		t.Fatal("constant fold ran despite being disabled")
	}
}

// TestConstantPropagationSimple covers the straightforward case: a `let`
// binding to a literal lets later references to that name fold away.
func TestConstantPropagationSimple(t *testing.T) {
	node := mustParse(t, `do( let(x, 1), +(x, x) )`)
	optimized := Optimize(node)
	call := optimized.(*ast.Call)
	last := call.Args[len(call.Args)-1]
	v, ok := last.(*ast.Value)
	if !ok {
		t.Fatalf("last statement = %T, want folded *ast.Value", last)
	}
	if v.Literal != float64(2) {
		t.Fatalf("folded literal = %v, want 2", v.Literal)
	}
}

// TestConstantPropagationInvalidatedByAssign checks that once `mut()` (a
// closure that assigns x) has been called, later references to x must NOT
// be folded to the pre-call constant.
func TestConstantPropagationInvalidatedByAssign(t *testing.T) {
	src := `do( let(x, 1), let(mut, ->(assign(x, 2))), mut(), println(x) )`
	node := mustParse(t, src)
	optimized := Optimize(node)

	call := optimized.(*ast.Call)
	printlnCall, ok := call.Args[len(call.Args)-1].(*ast.Call)
	if !ok {
		t.Fatalf("last statement = %T, want *ast.Call (println)", call.Args[len(call.Args)-1])
	}
	if w, ok := printlnCall.Operator.(*ast.Word); !ok || w.Name != "println" {
		t.Fatalf("last statement operator = %v, want println", printlnCall.Operator)
	}
	if _, folded := printlnCall.Args[0].(*ast.Value); folded {
		t.Fatalf("x was folded to a literal despite the intervening mutation: %v", printlnCall.Args[0])
	}
	if w, ok := printlnCall.Args[0].(*ast.Word); !ok || w.Name != "x" {
		t.Fatalf("println argument = %v, want unfolded Word(x)", printlnCall.Args[0])
	}

	v, out := runOptimized(t, src)
	if out != "2\n" {
		t.Fatalf("stdout = %q, want %q (runtime semantics must be unaffected)", out, "2\n")
	}
	arr := v.(*interp.Array)
	if arr.Elems[0] != interp.Number(2) {
		t.Fatalf("result = %v, want [2]", arr.Elems[0])
	}
}

// TestConstantPropagationInvalidatedByDirectAssign covers the simpler,
// non-closure case: a plain assign to a let-bound constant must invalidate
// it for everything lexically after the assign.
func TestConstantPropagationInvalidatedByDirectAssign(t *testing.T) {
	node := mustParse(t, `do( let(x, 1), assign(x, 2), +(x, 0) )`)
	optimized := Optimize(node)
	call := optimized.(*ast.Call)
	last := call.Args[len(call.Args)-1]
	addCall, ok := last.(*ast.Call)
	if !ok {
		t.Fatalf("last statement = %T, want unfolded *ast.Call", last)
	}
	if _, folded := addCall.Args[0].(*ast.Value); folded {
		t.Fatal("x was folded despite the intervening assign")
	}
}

// TestConstantPropagationInvalidatedAtCallSiteAfterRebind covers the case
// eager invalidation alone would miss: x is invalidated the moment mut is
// defined, but then rebound to a fresh constant before mut is actually
// called — the call site must invalidate it again via mut's mutation set.
func TestConstantPropagationInvalidatedAtCallSiteAfterRebind(t *testing.T) {
	src := `do( let(x, 1), let(mut, ->(assign(x, 2))), let(x, 5), mut(), println(x) )`
	node := mustParse(t, src)
	optimized := Optimize(node)

	call := optimized.(*ast.Call)
	printlnCall := call.Args[len(call.Args)-1].(*ast.Call)
	if _, folded := printlnCall.Args[0].(*ast.Value); folded {
		t.Fatalf("x was folded to the stale post-rebind constant: %v", printlnCall.Args[0])
	}

	v, out := runOptimized(t, src)
	if out != "2\n" {
		t.Fatalf("stdout = %q, want %q", out, "2\n")
	}
	arr := v.(*interp.Array)
	if arr.Elems[0] != interp.Number(2) {
		t.Fatalf("result = %v, want [2]", arr.Elems[0])
	}
}

func TestConstantPropagationDoesNotLeakAcrossRunBlocks(t *testing.T) {
	node := mustParse(t, `do( do( let(y, 5) ), +(y, 1) )`)
	optimized := Optimize(node)
	call := optimized.(*ast.Call)
	last := call.Args[len(call.Args)-1].(*ast.Call)
	if _, folded := last.Args[0].(*ast.Value); folded {
		t.Fatal("y leaked out of its enclosing run block during optimization")
	}
}

func TestConstantPropagationCanBeDisabled(t *testing.T) {
	node := mustParse(t, `do( let(x, 1), x )`)
	optimized := Optimize(node, WithPass(PassConstantPropagation, false))
	call := optimized.(*ast.Call)
	last := call.Args[len(call.Args)-1]
	if _, ok := last.(*ast.Word); !ok {
		t.Fatalf("last statement = %T, want unpropagated Word", last)
	}
}

// TestIndirectCallableInvalidatesEverything covers the "enter" rule: a Call
// whose operator is not a direct Word resets all tracked constants.
func TestIndirectCallableInvalidatesEverything(t *testing.T) {
	node := mustParse(t, `do( let(x, 1), let(f, ->( ->(x) )), f()(), +(x, 0) )`)
	optimized := Optimize(node)
	call := optimized.(*ast.Call)
	last := call.Args[len(call.Args)-1].(*ast.Call)
	if _, folded := last.Args[0].(*ast.Value); folded {
		t.Fatal("x should not remain foldable after an indirect call site")
	}
}

func TestOptimizedTreeStillContainsUnfoldableOperatorCalls(t *testing.T) {
	node := mustParse(t, `+(x, 1)`)
	optimized := Optimize(node)
	if _, ok := optimized.(*ast.Call); !ok {
		t.Fatalf("optimized = %T, want unfolded *ast.Call (x is unbound)", optimized)
	}
}

func TestFoldedStringConcatenation(t *testing.T) {
	node := mustParse(t, `+("foo", "bar")`)
	optimized := Optimize(node)
	v, ok := optimized.(*ast.Value)
	if !ok {
		t.Fatalf("optimized = %T, want folded *ast.Value", optimized)
	}
	if s, ok := v.Literal.(string); !ok || !strings.EqualFold(s, "foobar") {
		t.Fatalf("folded literal = %v, want %q", v.Literal, "foobar")
	}
}
