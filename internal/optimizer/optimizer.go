// Package optimizer implements an AST-level constant-fold and scope-aware
// constant-propagation rewrite: a single post-order walk over the tree,
// threading a stack of constant-tracking scope frames and, per tracked
// function, the set of names its body may mutate.
package optimizer

import (
	"io"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/interp"
)

// Pass names one of the two optimizations this package performs, each
// independently toggleable via Option.
type Pass string

const (
	PassConstantFold        Pass = "constant-fold"
	PassConstantPropagation Pass = "constant-propagation"
)

// Option toggles an optimization pass.
type Option func(*config)

type config struct {
	enabled map[Pass]bool
}

func defaultConfig() config {
	return config{enabled: map[Pass]bool{
		PassConstantFold:        true,
		PassConstantPropagation: true,
	}}
}

func (c config) isEnabled(p Pass) bool {
	if c.enabled == nil {
		return true
	}
	v, ok := c.enabled[p]
	if !ok {
		return true
	}
	return v
}

// WithPass enables or disables a named pass.
func WithPass(p Pass, enabled bool) Option {
	return func(c *config) {
		if c.enabled == nil {
			c.enabled = make(map[Pass]bool)
		}
		c.enabled[p] = enabled
	}
}

// foldableOperators is the fixed set of pure, side-effect-free operators
// eligible for constant folding.
var foldableOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"==": true, "!=": true, "<": true, ">": true,
	"&&": true, "||": true,
}

func isFnName(name string) bool {
	switch name {
	case "fn", "function", "->":
		return true
	}
	return false
}

func isAssignName(name string) bool {
	switch name {
	case "assign", "set", "=":
		return true
	}
	return false
}

func isLetName(name string) bool {
	switch name {
	case "let", "def", ":=":
		return true
	}
	return false
}

// optimizer holds one run's mutable state: the scope-tracking frames and
// the top-scope operator bindings folding invokes against.
type optimizer struct {
	scopes *scopes
	top    *interp.Environment
	cfg    config
}

// Optimize rewrites node in place (returning the possibly-replaced root)
// using a throwaway default top scope to resolve operator semantics for
// folding. Use OptimizeWithScope when the caller already has a live
// Interpreter (e.g. one with RegisterFunction additions) whose operator
// bindings folding should match exactly.
func Optimize(node ast.Node, opts ...Option) ast.Node {
	return OptimizeWithScope(node, interp.New(io.Discard).Top, opts...)
}

// OptimizeWithScope rewrites node using top to resolve operator callables
// during constant folding: a foldable Call is evaluated by invoking the
// resolved operator against its literal arguments directly.
func OptimizeWithScope(node ast.Node, top *interp.Environment, opts ...Option) ast.Node {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	o := &optimizer{scopes: newScopes(), top: top, cfg: cfg}
	return o.optimizeExpr(node)
}

// optimizeExpr dispatches a single node through the post-order rewrite.
func (o *optimizer) optimizeExpr(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Value:
		return v
	case *ast.Word:
		return o.optimizeWord(v)
	case *ast.Call:
		return o.optimizeCall(v)
	default:
		return n
	}
}

// optimizeWord implements step 4, constant propagation: a bare Word whose
// name resolves to a known literal is replaced by that literal, unless the
// caller is processing a structural (non-expression) position — callers in
// that position never route through optimizeWord at all.
func (o *optimizer) optimizeWord(w *ast.Word) ast.Node {
	if !o.cfg.isEnabled(PassConstantPropagation) {
		return w
	}
	if w.HasMemberPath() {
		return w
	}
	entry, ok := o.scopes.lookup(w.Name)
	if !ok || entry.isFunc || !entry.known {
		return w
	}
	return &ast.Value{Tok: w.Tok, Literal: entry.literal}
}

// optimizeCall is the "enter" + "leave" handling for a Call node.
func (o *optimizer) optimizeCall(c *ast.Call) ast.Node {
	w, isWord := c.Operator.(*ast.Word)
	if !isWord {
		// enter: an indirect callable. Cannot reason about its effects;
		// reset everything and leave the subtree untouched.
		o.scopes.invalidateAll()
		return c
	}

	switch {
	case w.Name == "if":
		return o.optimizeIf(c)
	case w.Name == "while":
		return o.optimizeWhile(c)
	case w.Name == "for":
		return o.optimizeFor(c)
	case w.Name == "foreach":
		return o.optimizeForeach(c)
	case w.Name == "run" || w.Name == "do":
		return o.optimizeRun(c)
	case isLetName(w.Name):
		return o.optimizeLet(c)
	case isFnName(w.Name):
		optimized, _ := o.optimizeFnLiteral(c)
		return optimized
	case isAssignName(w.Name):
		return o.optimizeAssign(c)
	case w.Name == "object":
		return o.optimizeObject(c)
	default:
		return o.optimizeOrdinaryCall(c, w.Name)
	}
}

func (o *optimizer) optimizeArgsInPlace(c *ast.Call) {
	for i, a := range c.Args {
		c.Args[i] = o.optimizeExpr(a)
	}
}

func (o *optimizer) optimizeIf(c *ast.Call) ast.Node {
	o.optimizeArgsInPlace(c)
	return c
}

func (o *optimizer) optimizeWhile(c *ast.Call) ast.Node {
	if len(c.Args) != 2 {
		o.optimizeArgsInPlace(c)
		return c
	}
	c.Args[0] = o.optimizeExpr(c.Args[0])
	o.scopes.push()
	c.Args[1] = o.optimizeExpr(c.Args[1])
	o.scopes.pop()
	return c
}

func (o *optimizer) optimizeFor(c *ast.Call) ast.Node {
	if len(c.Args) != 4 {
		o.optimizeArgsInPlace(c)
		return c
	}
	o.scopes.push() // init/cond/update group
	c.Args[0] = o.optimizeExpr(c.Args[0])
	c.Args[1] = o.optimizeExpr(c.Args[1])
	c.Args[2] = o.optimizeExpr(c.Args[2])
	o.scopes.push() // body
	c.Args[3] = o.optimizeExpr(c.Args[3])
	o.scopes.pop()
	o.scopes.pop()
	return c
}

func (o *optimizer) optimizeForeach(c *ast.Call) ast.Node {
	if len(c.Args) != 3 {
		o.optimizeArgsInPlace(c)
		return c
	}
	// c.Args[0] is the loop variable's Word: a structural binding position,
	// never a value expression — left untouched.
	c.Args[1] = o.optimizeExpr(c.Args[1])
	o.scopes.push()
	if w, ok := c.Args[0].(*ast.Word); ok {
		// Shadow any outer same-named constant: each iteration rebinds it
		// to an unknown element value, so it must never be folded.
		o.scopes.define(w.Name, &constEntry{})
	}
	c.Args[2] = o.optimizeExpr(c.Args[2])
	o.scopes.pop()
	return c
}

// optimizeRun handles run/do: a child scope within the current scope,
// statements optimized in sequence.
func (o *optimizer) optimizeRun(c *ast.Call) ast.Node {
	o.scopes.push()
	o.optimizeArgsInPlace(c)
	o.scopes.pop()
	return c
}

// optimizeLet implements steps 2 and 5 for let/def/:=.
func (o *optimizer) optimizeLet(c *ast.Call) ast.Node {
	if len(c.Args) != 2 {
		o.optimizeArgsInPlace(c)
		return c
	}
	nameWord, ok := c.Args[0].(*ast.Word)
	if !ok {
		c.Args[1] = o.optimizeExpr(c.Args[1])
		return c
	}

	if fnCall, isFn := asFnLiteral(c.Args[1]); isFn {
		optimized, mutSet := o.optimizeFnLiteral(fnCall)
		c.Args[1] = optimized
		o.scopes.define(nameWord.Name, &constEntry{isFunc: true, mutates: mutSet})
		return c
	}

	val := o.optimizeExpr(c.Args[1])
	c.Args[1] = val

	if lit, ok := val.(*ast.Value); ok {
		o.scopes.define(nameWord.Name, &constEntry{literal: lit.Literal, known: true})
	}
	return c
}

// optimizeFnLiteral walks a fn/function/-> literal's body in its own
// separated scope, tracking which names the body mutates so the binding
// site (optimizeLet/optimizeAssign) can register a mutation set.
func (o *optimizer) optimizeFnLiteral(fnCall *ast.Call) (*ast.Call, []string) {
	if len(fnCall.Args) == 0 {
		return fnCall, nil
	}
	o.scopes.push()
	o.scopes.pushMutationTracker()

	bodyIdx := len(fnCall.Args) - 1
	for _, p := range fnCall.Args[:bodyIdx] {
		// Shadow any outer same-named constant: a parameter is always an
		// unknown value at optimization time, regardless of what the name
		// means in the enclosing scope.
		if w, ok := p.(*ast.Word); ok {
			o.scopes.define(w.Name, &constEntry{})
		}
	}
	fnCall.Args[bodyIdx] = o.optimizeExpr(fnCall.Args[bodyIdx])

	mutSet := o.scopes.popMutationTracker()
	o.scopes.pop()
	return fnCall, mutSet
}

// optimizeAssign implements steps 1 and 5 for assign/set/=.
func (o *optimizer) optimizeAssign(c *ast.Call) ast.Node {
	if len(c.Args) < 2 {
		o.optimizeArgsInPlace(c)
		return c
	}
	lastIdx := len(c.Args) - 1
	target := c.Args[0]

	var optimizedVal ast.Node
	var fnMutSet []string
	isFnLit := false
	if fnCall, ok := asFnLiteral(c.Args[lastIdx]); ok {
		isFnLit = true
		optimizedVal, fnMutSet = o.optimizeFnLiteral(fnCall)
	} else {
		optimizedVal = o.optimizeExpr(c.Args[lastIdx])
	}

	for i := 1; i < lastIdx; i++ {
		c.Args[i] = o.optimizeExpr(c.Args[i])
	}
	c.Args[lastIdx] = optimizedVal

	w, isWord := target.(*ast.Word)
	if !isWord || w.HasMemberPath() {
		return c
	}

	if isFnLit {
		if existing, known := o.scopes.lookup(w.Name); known && existing.isFunc {
			fnMutSet = unionStrings(existing.mutates, fnMutSet)
		}
		o.scopes.removeAlong(w.Name)
		o.scopes.define(w.Name, &constEntry{isFunc: true, mutates: fnMutSet})
		return c
	}

	o.scopes.removeAlong(w.Name)
	return c
}

// optimizeObject walks key/value pairs; keys and values are ordinary
// expressions evaluated in the enclosing scope (object's own field/self
// scoping is a runtime concern, not a constant-tracking concern here).
func (o *optimizer) optimizeObject(c *ast.Call) ast.Node {
	o.optimizeArgsInPlace(c)
	return c
}

// optimizeOrdinaryCall implements step 1 (invalidate a tracked callable's
// mutation set at its call site) and step 3 (constant folding for the
// fixed operator set).
func (o *optimizer) optimizeOrdinaryCall(c *ast.Call, name string) ast.Node {
	o.optimizeArgsInPlace(c)

	if o.cfg.isEnabled(PassConstantFold) && foldableOperators[name] && len(c.Args) == 2 {
		if v1, ok1 := c.Args[0].(*ast.Value); ok1 {
			if v2, ok2 := c.Args[1].(*ast.Value); ok2 {
				if folded, ok := o.foldOperator(name, v1, v2); ok {
					return &ast.Value{Tok: c.Tok, Literal: folded}
				}
			}
		}
	}

	if entry, ok := o.scopes.lookup(name); ok && entry.isFunc {
		for _, m := range entry.mutates {
			o.scopes.removeAlong(m)
		}
	}
	return c
}

// foldOperator invokes the real top-scope NativeFunc for name against the
// two literal values, guaranteeing folded results match unoptimized
// evaluation exactly.
func (o *optimizer) foldOperator(name string, v1, v2 *ast.Value) (any, bool) {
	callable, ok := o.top.Get(name)
	if !ok {
		return nil, false
	}
	native, ok := callable.(*interp.NativeFunc)
	if !ok {
		return nil, false
	}
	a := literalToRuntimeValue(v1.Literal)
	b := literalToRuntimeValue(v2.Literal)
	if a == nil || b == nil {
		return nil, false
	}
	result, err := native.Fn([]interp.Value{a, b})
	if err != nil {
		return nil, false
	}
	return runtimeValueToLiteral(result), true
}

func literalToRuntimeValue(lit any) interp.Value {
	switch v := lit.(type) {
	case string:
		return interp.String(v)
	case float64:
		return interp.Number(v)
	case bool:
		return interp.Boolean(v)
	case nil:
		return interp.Undefined
	case interp.Value:
		return v
	default:
		return nil
	}
}

func runtimeValueToLiteral(v interp.Value) any {
	switch val := v.(type) {
	case interp.Number:
		return float64(val)
	case interp.String:
		return string(val)
	case interp.Boolean:
		return bool(val)
	default:
		return v
	}
}

// asFnLiteral reports whether n is a direct fn/function/-> literal Call —
// the only shape of callable-producing expression the Design Notes permit
// without triggering a conservative reset when bound by let/assign.
func asFnLiteral(n ast.Node) (*ast.Call, bool) {
	c, ok := n.(*ast.Call)
	if !ok {
		return nil, false
	}
	w, ok := c.Operator.(*ast.Word)
	if !ok || !isFnName(w.Name) {
		return nil, false
	}
	return c, true
}
