package interp

import (
	"fmt"
	"strings"

	"github.com/pls-lang/pls/internal/ast"
	errs "github.com/pls-lang/pls/internal/errors"
	"github.com/pls-lang/pls/internal/token"
)

// registerKeywords installs the special forms. Keywords receive their
// argument nodes unevaluated; every other Call operator is evaluated
// before its arguments.
func registerKeywords(ev *Interpreter) {
	reg := func(kw keywordFunc, names ...string) {
		for _, name := range names {
			ev.keywords[name] = kw
		}
	}

	reg(kwIf, "if")
	reg(kwWhile, "while")
	reg(kwFor, "for")
	reg(kwForeach, "foreach")
	reg(kwRun, "run", "do")
	reg(kwLet, "let", "def", ":=")
	reg(kwFn, "fn", "function", "->")
	reg(kwAssign, "assign", "set", "=")
	reg(kwObject, "object")
}

func kwIf(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, semanticArity("if", "2 or 3", len(args), pos(args))
	}
	cond, err := ev.Eval(args[0], scope)
	if err != nil {
		return nil, err
	}
	if !IsFalse(cond) {
		return ev.Eval(args[1], scope)
	}
	if len(args) == 3 {
		return ev.Eval(args[2], scope)
	}
	return Undefined, nil
}

func kwWhile(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) != 2 {
		return nil, semanticArity("while", "2", len(args), pos(args))
	}
	child := NewEnclosedEnvironment(scope)
	for {
		cond, err := ev.Eval(args[0], child)
		if err != nil {
			return nil, err
		}
		if IsFalse(cond) {
			break
		}
		if _, err := ev.Eval(args[1], child); err != nil {
			return nil, err
		}
	}
	return Undefined, nil
}

// kwFor implements `for(init, cond, update, body)`: in a new child scope,
// evaluate init once, then while cond is not false, evaluate body then
// update.
func kwFor(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) != 4 {
		return nil, semanticArity("for", "4", len(args), pos(args))
	}
	child := NewEnclosedEnvironment(scope)
	if _, err := ev.Eval(args[0], child); err != nil {
		return nil, err
	}
	for {
		cond, err := ev.Eval(args[1], child)
		if err != nil {
			return nil, err
		}
		if IsFalse(cond) {
			break
		}
		if _, err := ev.Eval(args[3], child); err != nil {
			return nil, err
		}
		if _, err := ev.Eval(args[2], child); err != nil {
			return nil, err
		}
	}
	return Undefined, nil
}

func kwForeach(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) != 3 {
		return nil, semanticArity("foreach", "3", len(args), pos(args))
	}
	binding, ok := args[0].(*ast.Word)
	if !ok || binding.HasMemberPath() {
		return nil, errs.New(errs.Semantic, args[0].Pos(), "foreach's first argument must be a plain Word")
	}
	iterVal, err := ev.Eval(args[1], scope)
	if err != nil {
		return nil, err
	}
	iterable, ok := iterVal.(Iterable)
	if !ok {
		return nil, errs.New(errs.Type, args[1].Pos(), fmt.Sprintf("value of type %s is not iterable", iterVal.Type()))
	}
	for _, elem := range iterable.Elements() {
		child := NewEnclosedEnvironment(scope)
		child.Define(binding.Name, elem)
		if _, err := ev.Eval(args[2], child); err != nil {
			return nil, err
		}
	}
	return Undefined, nil
}

// kwRun implements `run`/`do`: a new child scope, statements evaluated in
// order, result is the last statement's value (Undefined if none).
func kwRun(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	child := NewEnclosedEnvironment(scope)
	var result Value = Undefined
	for _, a := range args {
		v, err := ev.Eval(a, child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func kwLet(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) != 2 {
		return nil, semanticArity("let", "2", len(args), pos(args))
	}
	word, ok := args[0].(*ast.Word)
	if !ok || word.HasMemberPath() {
		return nil, errs.New(errs.Semantic, args[0].Pos(), "let's first argument must be a plain Word")
	}
	val, err := ev.Eval(args[1], scope)
	if err != nil {
		return nil, err
	}
	scope.Define(word.Name, val)
	return val, nil
}

func kwFn(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) < 1 {
		return nil, errs.New(errs.Semantic, pos(args), "fn requires a body as its last argument")
	}
	params := make([]string, 0, len(args)-1)
	for _, p := range args[:len(args)-1] {
		w, ok := p.(*ast.Word)
		if !ok || w.HasMemberPath() {
			return nil, errs.New(errs.Semantic, p.Pos(), "fn parameters must be plain Words")
		}
		params = append(params, w.Name)
	}
	return &Function{Params: params, Body: args[len(args)-1], Env: scope}, nil
}

// kwAssign implements `assign`/`set`/`=`. Its final argument is always the
// value expression; any arguments between the target and the value are
// index expressions for the indexed-assign form (Design Notes, Open
// Question (a)): container['='](value, ...indices).
func kwAssign(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args) < 2 {
		return nil, semanticArity("assign", "at least 2", len(args), pos(args))
	}
	target := args[0]
	indices := args[1 : len(args)-1]
	valueNode := args[len(args)-1]

	switch t := target.(type) {
	case *ast.Word:
		if t.HasMemberPath() {
			segs := t.Segments()
			mc := &ast.MethodCall{
				Tok:      t.Tok,
				Receiver: &ast.Word{Tok: t.Tok, Name: strings.Join(segs[:len(segs)-1], ".")},
				Key:      segs[len(segs)-1],
			}
			return ev.assignMethodCall(mc, indices, valueNode, scope)
		}

		if len(indices) == 0 {
			val, err := ev.Eval(valueNode, scope)
			if err != nil {
				return nil, err
			}
			if !scope.Set(t.Name, val) {
				return nil, errs.New(errs.Reference, t.Tok.Pos, fmt.Sprintf("Undefined binding: %s", t.Name))
			}
			return val, nil
		}
		cur, ok := scope.Get(t.Name)
		if !ok {
			return nil, errs.New(errs.Reference, t.Tok.Pos, fmt.Sprintf("Undefined binding: %s", t.Name))
		}
		return ev.assignIndexed(cur, indices, valueNode, scope)

	case *ast.MethodCall:
		return ev.assignMethodCall(t, indices, valueNode, scope)

	default:
		return nil, errs.New(errs.Semantic, target.Pos(), "assign's first argument must be a Word or member reference")
	}
}

// assignMethodCall resolves a {receiver, key} reference pair and either
// sets the field directly or, if index expressions are present, threads
// through assignIndexed.
func (ev *Interpreter) assignMethodCall(mc *ast.MethodCall, indices []ast.Node, valueNode ast.Node, scope *Environment) (Value, error) {
	recv, err := ev.Eval(mc.Receiver, scope)
	if err != nil {
		return nil, err
	}
	obj, ok := recv.(*Object)
	if !ok {
		return nil, errs.New(errs.Type, mc.Tok.Pos, fmt.Sprintf("cannot assign member of non-object value %s", recv.Type()))
	}
	if len(indices) == 0 {
		val, err := ev.Eval(valueNode, scope)
		if err != nil {
			return nil, err
		}
		obj.Set(mc.Key, val)
		return val, nil
	}
	cur, ok := obj.Get(mc.Key)
	if !ok {
		return nil, errs.New(errs.Reference, mc.Tok.Pos, fmt.Sprintf("Undefined binding: %s", mc.Key))
	}
	return ev.assignIndexed(cur, indices, valueNode, scope)
}

// assignIndexed walks cur through len(indices)-1 Indexable hops, then
// applies the final SetIndex with the evaluated value.
func (ev *Interpreter) assignIndexed(cur Value, indexNodes []ast.Node, valueNode ast.Node, scope *Environment) (Value, error) {
	idxVals := make([]Value, len(indexNodes))
	for i, n := range indexNodes {
		v, err := ev.Eval(n, scope)
		if err != nil {
			return nil, err
		}
		idxVals[i] = v
	}
	value, err := ev.Eval(valueNode, scope)
	if err != nil {
		return nil, err
	}

	container := cur
	for i := 0; i < len(idxVals)-1; i++ {
		idxable, ok := container.(Indexable)
		if !ok {
			return nil, errs.New(errs.Type, valueNode.Pos(), fmt.Sprintf("value of type %s does not support indexing", container.Type()))
		}
		next, err := idxable.Index(idxVals[i])
		if err != nil {
			return nil, errs.New(errs.Type, valueNode.Pos(), err.Error())
		}
		container = next
	}
	idxable, ok := container.(Indexable)
	if !ok {
		return nil, errs.New(errs.Type, valueNode.Pos(), fmt.Sprintf("value of type %s does not support indexed assignment", container.Type()))
	}
	if err := idxable.SetIndex(idxVals[len(idxVals)-1], value); err != nil {
		return nil, errs.New(errs.Type, valueNode.Pos(), err.Error())
	}
	return value, nil
}

// kwObject implements `object(key1, val1, key2, val2, ...)`: a fresh
// environment with `self` bound to the object under construction, so
// field values defined with fn close over self.
func kwObject(ev *Interpreter, args []ast.Node, scope *Environment) (Value, error) {
	if len(args)%2 != 0 {
		return nil, errs.New(errs.Semantic, pos(args), "object requires an even number of key/value arguments")
	}
	objEnv := NewEnclosedEnvironment(scope)
	obj := NewObject(objEnv)
	objEnv.Define("self", obj)

	for i := 0; i < len(args); i += 2 {
		keyVal, err := ev.Eval(args[i], objEnv)
		if err != nil {
			return nil, err
		}
		keyStr, ok := keyVal.(String)
		if !ok {
			return nil, errs.New(errs.Type, args[i].Pos(), "object key must evaluate to a string")
		}
		val, err := ev.Eval(args[i+1], objEnv)
		if err != nil {
			return nil, err
		}
		obj.Set(string(keyStr), val)
	}
	return obj, nil
}

// pos returns a position to attach to an arity error: the first argument's
// position, or a zero position if there are no arguments at all.
func pos(args []ast.Node) token.Position {
	if len(args) == 0 {
		return token.Position{}
	}
	return args[0].Pos()
}

func semanticArity(name, want string, got int, p token.Position) error {
	return errs.New(errs.Semantic, p, fmt.Sprintf("%s requires %s arguments, got %d", name, want, got))
}
