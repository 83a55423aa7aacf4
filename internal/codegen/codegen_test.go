package codegen

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/pls-lang/pls/internal/parser"
)

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}

func mustGenerate(t *testing.T, src string) string {
	t.Helper()
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	out, err := Generate(node)
	if err != nil {
		t.Fatalf("generate %q: %v", src, err)
	}
	return out
}

func TestGenerateArithmeticInfix(t *testing.T) {
	got := mustGenerate(t, `+(1, 2)`)
	want := "(1 + 2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateEqualityMapsToStrictJS(t *testing.T) {
	got := mustGenerate(t, `==(1, 2)`)
	want := "(1 === 2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateIfAsTernary(t *testing.T) {
	got := mustGenerate(t, `if(true, 1, 2)`)
	want := "(true !== false ? 1 : 2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateIfWithoutElseDefaultsToUndefined(t *testing.T) {
	got := mustGenerate(t, `if(true, 1)`)
	want := "(true !== false ? 1 : undefined)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateDoHoistsLetDeclarations(t *testing.T) {
	got := mustGenerate(t, `do( let(x, 1), let(y, 2), +(x, y) )`)
	want := "(function(){ var x, y; (x = 1); (y = 2); return (x + y); })()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateFnLiteral(t *testing.T) {
	got := mustGenerate(t, `->(a, b, +(a, b))`)
	want := "(function(a, b) { return (a + b); })"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateAssignToPlainWord(t *testing.T) {
	got := mustGenerate(t, `assign(x, 5)`)
	want := "(x = 5)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateAssignWithIndex(t *testing.T) {
	got := mustGenerate(t, `assign(arr, 0, 9)`)
	want := "(arr[0] = 9)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateSelfMapsToThis(t *testing.T) {
	got := mustGenerate(t, `self.name`)
	want := "this.name"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateObjectLiteral(t *testing.T) {
	got := mustGenerate(t, `object("count", 0)`)
	want := `{ "count": 0 }`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateForeachLowersToForOf(t *testing.T) {
	got := mustGenerate(t, `foreach(item, arr(1, 2, 3), println(item))`)
	want := "(function(){ for (const item of [1, 2, 3]) { console.log(item); } return undefined; })()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateForLoopHoistsInitBinding(t *testing.T) {
	got := mustGenerate(t, `for(let(i, 0), <(i, 3), assign(i, +(i, 1)), println(i))`)
	want := "(function(){ var i; for ((i = 0); (i < 3) !== false; (i = (i + 1))) { console.log(i); } return undefined; })()"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateUnknownOperatorFallsBackToOrdinaryCall(t *testing.T) {
	got := mustGenerate(t, `double(21)`)
	want := "double(21)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateNestedDoReturnsLastStatement(t *testing.T) {
	got := mustGenerate(t, `do( println("hi"), 42 )`)
	want := `(function(){ console.log("hi"); return 42; })()`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestGenerateObjectMethodSnapshot exercises a shape elaborate enough (a
// closure-carrying object literal) that the hand-written comparisons above
// would be unwieldy; a snapshot is a better fit.
func TestGenerateObjectMethodSnapshot(t *testing.T) {
	got := mustGenerate(t, `object("value", 0, "bump", ->(assign(self.value, +(self.value, 1))))`)
	snaps.MatchSnapshot(t, got)
}
