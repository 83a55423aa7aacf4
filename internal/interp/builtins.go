package interp

import (
	"fmt"

	errs "github.com/pls-lang/pls/internal/errors"
	"github.com/pls-lang/pls/internal/token"
)

// registerBuiltins populates the top scope with the ordinary (non-keyword)
// callables: arithmetic/comparison/logical operators, println, and the
// collection constructors arr/map and the element/len accessors.
func registerBuiltins(ev *Interpreter) {
	def := func(name string, fn func(args []Value) (Value, error)) {
		ev.Top.Define(name, &NativeFunc{Name: name, Fn: fn})
	}

	def("+", builtinAdd)
	def("-", arithmetic("-", func(a, b float64) float64 { return a - b }))
	def("*", arithmetic("*", func(a, b float64) float64 { return a * b }))
	def("/", builtinDivide)
	def("==", builtinEq(true))
	def("!=", builtinEq(false))
	def("<", comparison("<", func(c int) bool { return c < 0 }))
	def(">", comparison(">", func(c int) bool { return c > 0 }))
	def("&&", builtinAnd)
	def("||", builtinOr)
	def("println", builtinPrintln(ev))
	def("arr", builtinArr)
	def("array", builtinArr)
	def("len", builtinLen)
	def("length", builtinLen)
	def("element", builtinElement)
	def("map", builtinMap)
	def("hash", builtinMap)

	ev.Top.Define("true", Boolean(true))
	ev.Top.Define("false", Boolean(false))
	ev.Top.Define("undefined", Undefined)
}

func arityError(name string, want, got int) error {
	return errs.New(errs.Type, token.Position{}, fmt.Sprintf("%s requires %d arguments, got %d", name, want, got))
}

// builtinAdd adds two numbers, or concatenates if either operand is a
// string (the "please" language's JS-derived `+` semantics).
func builtinAdd(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("+", 2, len(args))
	}
	a, b := args[0], args[1]
	if as, ok := a.(String); ok {
		return as + String(b.String()), nil
	}
	if bs, ok := b.(String); ok {
		return String(a.String()) + bs, nil
	}
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if !aok || !bok {
		return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("+ requires numbers or strings, got %s and %s", a.Type(), b.Type()))
	}
	return an + bn, nil
}

func arithmetic(name string, op func(a, b float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, arityError(name, 2, len(args))
		}
		a, ok1 := args[0].(Number)
		b, ok2 := args[1].(Number)
		if !ok1 || !ok2 {
			return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("%s requires two numbers, got %s and %s", name, args[0].Type(), args[1].Type()))
		}
		return Number(op(float64(a), float64(b))), nil
	}
}

func builtinDivide(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("/", 2, len(args))
	}
	a, ok1 := args[0].(Number)
	b, ok2 := args[1].(Number)
	if !ok1 || !ok2 {
		return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("/ requires two numbers, got %s and %s", args[0].Type(), args[1].Type()))
	}
	if b == 0 {
		return nil, errs.New(errs.Type, token.Position{}, "division by zero")
	}
	return a / b, nil
}

func builtinEq(want bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, arityError("==", 2, len(args))
		}
		eq := Equal(args[0], args[1])
		return Boolean(eq == want), nil
	}
}

// comparison implements `<`/`>` for numbers (numeric order) and strings
// (lexical order).
func comparison(name string, test func(cmp int) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, arityError(name, 2, len(args))
		}
		switch a := args[0].(type) {
		case Number:
			b, ok := args[1].(Number)
			if !ok {
				return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("%s requires matching operand types", name))
			}
			return Boolean(test(cmpFloat(float64(a), float64(b)))), nil
		case String:
			b, ok := args[1].(String)
			if !ok {
				return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("%s requires matching operand types", name))
			}
			return Boolean(test(cmpString(string(a), string(b)))), nil
		default:
			return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("%s is not defined for type %s", name, args[0].Type()))
		}
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// builtinAnd and builtinOr are ordinary top-scope functions, not keywords:
// both operands are evaluated before the call (no short-circuiting) — &&
// and || appear nowhere in the keyword table.
func builtinAnd(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("&&", 2, len(args))
	}
	return Boolean(!IsFalse(args[0]) && !IsFalse(args[1])), nil
}

func builtinOr(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("||", 2, len(args))
	}
	return Boolean(!IsFalse(args[0]) || !IsFalse(args[1])), nil
}

func builtinPrintln(ev *Interpreter) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		parts := make([]any, len(args))
		elems := make([]Value, len(args))
		for i, a := range args {
			parts[i] = a.String()
			elems[i] = a
		}
		fmt.Fprintln(ev.Output, parts...)
		return NewArray(elems), nil
	}
}

func builtinArr(args []Value) (Value, error) {
	elems := make([]Value, len(args))
	copy(elems, args)
	return NewArray(elems), nil
}

func builtinLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("len", 1, len(args))
	}
	switch v := args[0].(type) {
	case *Array:
		return Number(len(v.Elems)), nil
	case String:
		return Number(len([]rune(string(v)))), nil
	case *Hash:
		return Number(len(v.Keys())), nil
	default:
		return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("len is not defined for type %s", v.Type()))
	}
}

func builtinElement(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("element", 2, len(args))
	}
	idxable, ok := args[0].(Indexable)
	if !ok {
		return nil, errs.New(errs.Type, token.Position{}, fmt.Sprintf("value of type %s does not support indexing", args[0].Type()))
	}
	v, err := idxable.Index(args[1])
	if err != nil {
		return nil, errs.New(errs.Type, token.Position{}, err.Error())
	}
	return v, nil
}

func builtinMap(args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return nil, errs.New(errs.Type, token.Position{}, "map requires an even number of key/value arguments")
	}
	h := NewHash()
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(String)
		if !ok {
			return nil, errs.New(errs.Type, token.Position{}, "map keys must be strings")
		}
		h.Set(string(key), args[i+1])
	}
	return h, nil
}
