// Package interp implements the tree-walking evaluator: scope-chain based
// name resolution, the keyword/builtin registries, and object/method
// dispatch.
package interp

import (
	"fmt"
	"io"

	"github.com/pls-lang/pls/internal/ast"
	errs "github.com/pls-lang/pls/internal/errors"
	"github.com/pls-lang/pls/internal/token"
)

// keywordFunc is a special form: it receives unevaluated argument nodes
// and the scope it was called in, unlike ordinary callables which only
// ever see already-evaluated arguments.
type keywordFunc func(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithTrace sets the writer execution traces are written to when tracing
// is enabled.
func WithTrace(w io.Writer) Option {
	return func(i *Interpreter) { i.trace = w }
}

// Interpreter walks an AST against a scope chain, dispatching Calls to
// keywords or ordinary callables.
type Interpreter struct {
	Output    io.Writer
	Top       *Environment
	keywords  map[string]keywordFunc
	callStack []string
	trace     io.Writer
}

// New creates an Interpreter with a fresh top scope populated with
// built-ins and the keyword registry.
func New(output io.Writer, opts ...Option) *Interpreter {
	ev := &Interpreter{
		Output:   output,
		Top:      NewEnvironment(),
		keywords: make(map[string]keywordFunc),
		trace:    io.Discard,
	}
	for _, opt := range opts {
		opt(ev)
	}
	registerKeywords(ev)
	registerBuiltins(ev)
	return ev
}

// CallStack returns a copy of the current stack of user-defined function
// activations (innermost last). Error messages do not include it.
func (ev *Interpreter) CallStack() []string {
	out := make([]string, len(ev.callStack))
	copy(out, ev.callStack)
	return out
}

// Run evaluates node against the top scope: the entry point for the
// `run(source)`/`interpret(ast)` driver operations.
func (ev *Interpreter) Run(node ast.Node) (Value, error) {
	return ev.Eval(node, ev.Top)
}

// Eval evaluates a single AST node against scope.
func (ev *Interpreter) Eval(node ast.Node, scope *Environment) (Value, error) {
	switch n := node.(type) {
	case *ast.Value:
		return literalToValue(n.Literal), nil
	case *ast.Word:
		return ev.evalWord(n, scope)
	case *ast.Call:
		return ev.evalCall(n, scope)
	case *ast.MethodCall:
		return ev.evalMethodCall(n, scope)
	default:
		return nil, fmt.Errorf("interp: unsupported node type %T", node)
	}
}

// literalToValue converts an ast.Value's payload into a runtime Value.
// Literal is either a raw Go literal produced by the parser (string,
// float64) or an already-evaluated Value the optimizer folded in.
func literalToValue(lit any) Value {
	switch v := lit.(type) {
	case nil:
		return Undefined
	case string:
		return String(v)
	case float64:
		return Number(v)
	case bool:
		return Boolean(v)
	case Value:
		return v
	default:
		return Undefined
	}
}

func (ev *Interpreter) evalWord(w *ast.Word, scope *Environment) (Value, error) {
	if w.HasMemberPath() {
		return ev.resolvePath(w.Segments(), scope, w.Tok.Pos)
	}
	v, ok := scope.Get(w.Name)
	if !ok {
		return nil, errs.New(errs.Reference, w.Tok.Pos, fmt.Sprintf("Undefined binding: %s", w.Name))
	}
	return v, nil
}

func (ev *Interpreter) evalCall(c *ast.Call, scope *Environment) (Value, error) {
	if w, ok := c.Operator.(*ast.Word); ok && !w.HasMemberPath() {
		if kw, isKeyword := ev.keywords[w.Name]; isKeyword {
			return kw(ev, c.Args, scope)
		}
	}

	if w, ok := c.Operator.(*ast.Word); ok && w.HasMemberPath() {
		return ev.evalMemberCall(w, c.Args, scope)
	}

	opVal, err := ev.Eval(c.Operator, scope)
	if err != nil {
		return nil, err
	}
	argVals, err := ev.evalArgs(c.Args, scope)
	if err != nil {
		return nil, err
	}
	return ev.apply(opVal, argVals, c.Tok.Pos, callableName(c.Operator))
}

func (ev *Interpreter) evalArgs(nodes []ast.Node, scope *Environment) ([]Value, error) {
	vals := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := ev.Eval(n, scope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (ev *Interpreter) evalMemberCall(w *ast.Word, argNodes []ast.Node, scope *Environment) (Value, error) {
	segs := w.Segments()
	receiver, err := ev.resolvePath(segs[:len(segs)-1], scope, w.Tok.Pos)
	if err != nil {
		return nil, err
	}
	obj, ok := receiver.(*Object)
	if !ok {
		return nil, errs.New(errs.Type, w.Tok.Pos, fmt.Sprintf("cannot access member of non-object value %s", receiver.Type()))
	}
	key := segs[len(segs)-1]
	callable, ok := obj.Get(key)
	if !ok {
		return nil, errs.New(errs.Reference, w.Tok.Pos, fmt.Sprintf("Undefined binding: %s", w.Name))
	}
	args, err := ev.evalArgs(argNodes, scope)
	if err != nil {
		return nil, err
	}
	return ev.apply(callable, args, w.Tok.Pos, w.Name)
}

func (ev *Interpreter) evalMethodCall(m *ast.MethodCall, scope *Environment) (Value, error) {
	recv, err := ev.Eval(m.Receiver, scope)
	if err != nil {
		return nil, err
	}
	obj, ok := recv.(*Object)
	if !ok {
		return nil, errs.New(errs.Type, m.Tok.Pos, fmt.Sprintf("cannot access member of non-object value %s", recv.Type()))
	}
	callable, ok := obj.Get(m.Key)
	if !ok {
		return nil, errs.New(errs.Reference, m.Tok.Pos, fmt.Sprintf("Undefined binding: %s", m.Key))
	}
	args, err := ev.evalArgs(m.Args, scope)
	if err != nil {
		return nil, err
	}
	return ev.apply(callable, args, m.Tok.Pos, m.Key)
}

// resolvePath walks a dotted reference ["obj", "inner", "field"] starting
// with an ordinary scope lookup of segs[0], then descending through
// Object fields for the remaining segments.
func (ev *Interpreter) resolvePath(segs []string, scope *Environment, pos token.Position) (Value, error) {
	v, ok := scope.Get(segs[0])
	if !ok {
		return nil, errs.New(errs.Reference, pos, fmt.Sprintf("Undefined binding: %s", segs[0]))
	}
	for _, seg := range segs[1:] {
		obj, ok := v.(*Object)
		if !ok {
			return nil, errs.New(errs.Type, pos, fmt.Sprintf("cannot access member %q of non-object value %s", seg, v.Type()))
		}
		v, ok = obj.Get(seg)
		if !ok {
			return nil, errs.New(errs.Reference, pos, fmt.Sprintf("Undefined binding: %s", seg))
		}
	}
	return v, nil
}

// apply invokes a callable value with already-evaluated arguments.
func (ev *Interpreter) apply(callable Value, args []Value, pos token.Position, name string) (Value, error) {
	switch fn := callable.(type) {
	case *NativeFunc:
		return fn.Fn(args)
	case *Function:
		if len(args) != len(fn.Params) {
			return nil, errs.New(errs.Type, pos, fmt.Sprintf("wrong number of arguments: got %d, want %d", len(args), len(fn.Params)))
		}
		env := NewEnclosedEnvironment(fn.Env)
		for i, p := range fn.Params {
			env.Define(p, args[i])
		}
		ev.pushCall(name, pos)
		defer ev.popCall()
		return ev.Eval(fn.Body, env)
	default:
		return nil, errs.New(errs.Type, pos, fmt.Sprintf("value of type %s is not callable", callable.Type()))
	}
}

func callableName(op ast.Node) string {
	if w, ok := op.(*ast.Word); ok {
		return w.Name
	}
	return "<anonymous>"
}

func (ev *Interpreter) pushCall(name string, pos token.Position) {
	ev.callStack = append(ev.callStack, name)
	if ev.trace != nil {
		fmt.Fprintf(ev.trace, "call %s at %s\n", name, pos)
	}
}

func (ev *Interpreter) popCall() {
	if len(ev.callStack) > 0 {
		ev.callStack = ev.callStack[:len(ev.callStack)-1]
	}
}
