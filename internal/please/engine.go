// Package please is the top-level driver API: a REPL-adjacent Engine over
// the lexer/parser/optimizer/interp pipeline, plus package-level
// Parse/Compile/Interpret/Run convenience functions for one-shot use.
package please

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/config"
	errs "github.com/pls-lang/pls/internal/errors"
	"github.com/pls-lang/pls/internal/interp"
	"github.com/pls-lang/pls/internal/optimizer"
	"github.com/pls-lang/pls/internal/parser"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOptimize toggles the constant-fold/propagate pass Eval runs before
// evaluation. Enabled by default.
func WithOptimize(enabled bool) Option {
	return func(e *Engine) { e.optimize = enabled }
}

// WithOutput sets the writer println and friends write to.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithTrace sets the writer execution traces are written to.
func WithTrace(w io.Writer) Option {
	return func(e *Engine) { e.trace = w }
}

// Engine holds a single interpreter instance across repeated Eval calls,
// so definitions from one Eval are visible to the next — the shape a REPL
// or embedding host needs.
type Engine struct {
	interp   *interp.Interpreter
	optimize bool
	output   io.Writer
	trace    io.Writer
}

// New creates an Engine with a fresh top scope.
func New(opts ...Option) *Engine {
	e := &Engine{optimize: true, output: os.Stdout, trace: io.Discard}
	for _, opt := range opts {
		opt(e)
	}
	e.interp = interp.New(e.output, interp.WithTrace(e.trace))
	return e
}

// SetOutput redirects println and friends to w for subsequent Eval calls.
func (e *Engine) SetOutput(w io.Writer) {
	e.output = w
	e.interp.Output = w
}

// Eval parses and evaluates source against the Engine's persistent top
// scope, optionally running the constant-fold/propagate optimizer first.
func (e *Engine) Eval(source string) (interp.Value, error) {
	node, err := parseWithSource(source, "")
	if err != nil {
		return nil, err
	}
	if e.optimize {
		node = optimizer.OptimizeWithScope(node, e.interp.Top)
	}
	return e.interp.Run(node)
}

var valueType = reflect.TypeOf((*interp.Value)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunction exposes a Go function as a pls callable under name.
// fn must be a non-variadic function returning either a single value or a
// (value, error) pair; each parameter and the result type must be
// float64, string, bool, or interp.Value. The signature is validated once
// here, at registration time; the argument count is checked against the
// function's arity on every call.
func (e *Engine) RegisterFunction(name string, fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("please: RegisterFunction(%q): not a function", name)
	}
	t := v.Type()
	if t.IsVariadic() {
		return fmt.Errorf("please: RegisterFunction(%q): variadic host functions are not supported", name)
	}
	if n := t.NumOut(); n != 1 && n != 2 {
		return fmt.Errorf("please: RegisterFunction(%q): must return (result) or (result, error), got %d results", name, n)
	}
	if t.NumOut() == 2 && !t.Out(1).Implements(errorType) {
		return fmt.Errorf("please: RegisterFunction(%q): second return value must be error", name)
	}
	for i := 0; i < t.NumIn(); i++ {
		if !supportedGoType(t.In(i)) {
			return fmt.Errorf("please: RegisterFunction(%q): unsupported parameter type %s", name, t.In(i))
		}
	}
	if !supportedGoType(t.Out(0)) {
		return fmt.Errorf("please: RegisterFunction(%q): unsupported result type %s", name, t.Out(0))
	}

	arity := t.NumIn()
	hasErr := t.NumOut() == 2
	native := &interp.NativeFunc{
		Name: name,
		Fn: func(args []interp.Value) (interp.Value, error) {
			if len(args) != arity {
				return nil, fmt.Errorf("%s: expected %d argument(s), got %d", name, arity, len(args))
			}
			in := make([]reflect.Value, arity)
			for i, a := range args {
				converted, err := convertArgToGo(a, t.In(i))
				if err != nil {
					return nil, fmt.Errorf("%s: argument %d: %w", name, i, err)
				}
				in[i] = converted
			}
			out := v.Call(in)
			if hasErr {
				if errVal, ok := out[1].Interface().(error); ok && errVal != nil {
					return nil, errVal
				}
			}
			return convertGoToValue(out[0])
		},
	}
	e.interp.Top.Define(name, native)
	return nil
}

func supportedGoType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Float64, reflect.String, reflect.Bool:
		return true
	default:
		return t.Implements(valueType)
	}
}

func convertArgToGo(a interp.Value, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.Float64:
		n, ok := a.(interp.Number)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a number, got %s", a.Type())
		}
		return reflect.ValueOf(float64(n)), nil
	case reflect.String:
		s, ok := a.(interp.String)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a string, got %s", a.Type())
		}
		return reflect.ValueOf(string(s)), nil
	case reflect.Bool:
		b, ok := a.(interp.Boolean)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a boolean, got %s", a.Type())
		}
		return reflect.ValueOf(bool(b)), nil
	default:
		if !reflect.TypeOf(a).Implements(target) {
			return reflect.Value{}, fmt.Errorf("expected %s, got %s", target, a.Type())
		}
		return reflect.ValueOf(a), nil
	}
}

func convertGoToValue(out reflect.Value) (interp.Value, error) {
	switch out.Kind() {
	case reflect.Float64:
		return interp.Number(out.Float()), nil
	case reflect.String:
		return interp.String(out.String()), nil
	case reflect.Bool:
		return interp.Boolean(out.Bool()), nil
	default:
		v, ok := out.Interface().(interp.Value)
		if !ok {
			return nil, fmt.Errorf("please: result of type %s does not implement interp.Value", out.Type())
		}
		return v, nil
	}
}

func parseWithSource(source, file string) (ast.Node, error) {
	node, err := parser.Parse(source)
	if err == nil {
		return node, nil
	}
	if le := errs.FromLexError(err, source, file); le != nil {
		return nil, le
	}
	if pe := errs.FromParseError(err, source, file); pe != nil {
		return nil, pe
	}
	return nil, err
}

// Parse lexes and parses source, returning the raw AST.
func Parse(source string) (ast.Node, error) {
	return parseWithSource(source, "")
}

// ParseFromFile reads path and parses its contents.
func ParseFromFile(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("please: reading %s: %w", path, err)
	}
	return parseWithSource(string(data), path)
}

// interpOptionsFor builds the interp.Options a one-shot Run/RunFromFile
// call needs from the resolved RunOptions, wiring the execution trace
// writer in only when tracing is requested.
func interpOptionsFor(ro *config.RunOptions) []interp.Option {
	if !ro.Trace {
		return nil
	}
	return []interp.Option{interp.WithTrace(ro.Output)}
}

// Run parses, optionally optimizes, and evaluates source in one shot
// against a fresh top scope.
func Run(source string, opts ...config.RunOption) (interp.Value, error) {
	ro := config.NewRunOptions(nil, opts...)
	node, err := parseWithSource(source, "")
	if err != nil {
		return nil, err
	}
	ev := interp.New(ro.Output, interpOptionsFor(ro)...)
	if ro.Optimize {
		node = optimizer.OptimizeWithScope(node, ev.Top)
	}
	if ro.DumpAST {
		fmt.Fprintln(ro.Output, node.String())
	}
	return ev.Run(node)
}

// RunFromFile reads path and runs it as source.
func RunFromFile(path string, opts ...config.RunOption) (interp.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("please: reading %s: %w", path, err)
	}
	ro := config.NewRunOptions(nil, opts...)
	node, err := parseWithSource(string(data), path)
	if err != nil {
		return nil, err
	}
	ev := interp.New(ro.Output, interpOptionsFor(ro)...)
	if ro.Optimize {
		node = optimizer.OptimizeWithScope(node, ev.Top)
	}
	return ev.Run(node)
}
