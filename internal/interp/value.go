package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pls-lang/pls/internal/ast"
)

// Value is any run-time value the evaluator can produce: a number, string,
// boolean, undefined, array, hash, function, native function, or object.
type Value interface {
	Type() string
	String() string
}

// Number is a 64-bit float, the only numeric type in the language.
type Number float64

func (Number) Type() string { return "number" }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// String is a text value.
type String string

func (String) Type() string    { return "string" }
func (s String) String() string { return string(s) }

// Boolean is true or false. Only literal `false` is falsy; `if`/`while`
// conditions treat every other value as true.
type Boolean bool

func (Boolean) Type() string     { return "boolean" }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// IsFalse reports whether v is the literal boolean false. Every other
// value, including zero, empty string, and undefined, is truthy.
func IsFalse(v Value) bool {
	b, ok := v.(Boolean)
	return ok && !bool(b)
}

// undefinedValue is the singleton undefined value.
type undefinedValue struct{}

func (undefinedValue) Type() string   { return "undefined" }
func (undefinedValue) String() string { return "undefined" }

// Undefined is the language's single undefined value.
var Undefined Value = undefinedValue{}

// Array is a mutable, ordered, 0-indexed sequence of values.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (*Array) Type() string { return "array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Index(idx Value) (Value, error) {
	i, err := arrayIndex(idx, len(a.Elems))
	if err != nil {
		return nil, err
	}
	return a.Elems[i], nil
}

func (a *Array) SetIndex(idx Value, val Value) error {
	n, ok := idx.(Number)
	if !ok {
		return fmt.Errorf("array index must be a number")
	}
	i := int(n)
	if i < 0 {
		return fmt.Errorf("array index out of range: %d", i)
	}
	for i >= len(a.Elems) {
		a.Elems = append(a.Elems, Undefined)
	}
	a.Elems[i] = val
	return nil
}

func (a *Array) Elements() []Value { return a.Elems }

func arrayIndex(idx Value, length int) (int, error) {
	n, ok := idx.(Number)
	if !ok {
		return 0, fmt.Errorf("array index must be a number")
	}
	i := int(n)
	if i < 0 || i >= length {
		return 0, fmt.Errorf("array index out of range: %d", i)
	}
	return i, nil
}

// Hash is a mutable string-keyed associative value, constructed by the
// `map`/`hash` builtin.
type Hash struct {
	// order preserves insertion order for deterministic String()/iteration.
	order []string
	data  map[string]Value
}

func NewHash() *Hash { return &Hash{data: make(map[string]Value)} }

func (*Hash) Type() string { return "hash" }
func (h *Hash) String() string {
	parts := make([]string, 0, len(h.order))
	for _, k := range h.order {
		parts = append(parts, fmt.Sprintf("%s: %s", k, h.data[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (h *Hash) Get(key string) (Value, bool) {
	v, ok := h.data[key]
	return v, ok
}

func (h *Hash) Set(key string, val Value) {
	if _, exists := h.data[key]; !exists {
		h.order = append(h.order, key)
	}
	h.data[key] = val
}

func (h *Hash) Keys() []string { return h.order }

func (h *Hash) Index(idx Value) (Value, error) {
	key, err := hashKey(idx)
	if err != nil {
		return nil, err
	}
	v, ok := h.data[key]
	if !ok {
		return Undefined, nil
	}
	return v, nil
}

func (h *Hash) SetIndex(idx Value, val Value) error {
	key, err := hashKey(idx)
	if err != nil {
		return err
	}
	h.Set(key, val)
	return nil
}

func hashKey(idx Value) (string, error) {
	s, ok := idx.(String)
	if !ok {
		return "", fmt.Errorf("hash key must be a string")
	}
	return string(s), nil
}

// Indexable is implemented by values supporting the `element` getter and
// the indexed-assign form of `assign`/`set`/`=`: container['='](value,
// ...indices).
type Indexable interface {
	Index(idx Value) (Value, error)
	SetIndex(idx Value, val Value) error
}

// Iterable is implemented by values `foreach` can walk.
type Iterable interface {
	Elements() []Value
}

func (h *Hash) Elements() []Value {
	vals := make([]Value, len(h.order))
	for i, k := range h.order {
		vals[i] = h.data[k]
	}
	return vals
}

// Function is a user-defined closure produced by fn/function/->.
type Function struct {
	Params []string
	Body   ast.Node
	Env    *Environment
}

func (*Function) Type() string    { return "function" }
func (f *Function) String() string { return fmt.Sprintf("fn(%s)", strings.Join(f.Params, ", ")) }

// NativeFunc is a Go-implemented callable bound into the top scope
// (operators, println, arr, len, element, map).
type NativeFunc struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*NativeFunc) Type() string     { return "native-function" }
func (n *NativeFunc) String() string { return "native:" + n.Name }

// Object is a mapping from string keys to values with a dedicated
// environment frame. Fields holds the object's own storage; Env is the
// environment in which field values bound to `fn` literals were evaluated
// (so methods close over `self`).
type Object struct {
	Fields map[string]Value
	Env    *Environment
}

func NewObject(env *Environment) *Object {
	return &Object{Fields: make(map[string]Value), Env: env}
}

func (*Object) Type() string { return "object" }
func (o *Object) String() string {
	parts := make([]string, 0, len(o.Fields))
	for k, v := range o.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.String()))
	}
	return "object{" + strings.Join(parts, ", ") + "}"
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Fields[key]
	return v, ok
}

func (o *Object) Set(key string, val Value) {
	o.Fields[key] = val
}

// Equal implements the object method-set's equality (Open Question (b)):
// objects compare equal only by identity.
func Equal(a, b Value) bool {
	if ao, ok := a.(*Object); ok {
		bo, ok := b.(*Object)
		return ok && ao == bo
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case undefinedValue:
		_, ok := b.(undefinedValue)
		return ok
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
