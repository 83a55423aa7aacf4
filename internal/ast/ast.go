// Package ast defines the three AST node kinds produced by the parser
// (Value, Word, Call) plus the synthetic MethodCall node the evaluator
// builds on demand for dotted object-member assignment.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pls-lang/pls/internal/token"
)

// Node is the common interface every AST node satisfies.
type Node interface {
	// TokenLiteral returns the literal text of the token the node
	// originated from, for debugging.
	TokenLiteral() string
	// String renders the node as pls-like source, for debugging and
	// snapshot tests.
	String() string
	// Pos returns the node's source position.
	Pos() token.Position
}

// Value is a literal node. Literal may hold a string, float64, bool, nil
// (undefined), or any runtime value the evaluator/optimizer produces
// during folding.
type Value struct {
	Tok     token.Token
	Literal any
}

func (v *Value) TokenLiteral() string  { return v.Tok.Literal }
func (v *Value) Pos() token.Position   { return v.Tok.Pos }
func (v *Value) String() string {
	switch lit := v.Literal.(type) {
	case string:
		return strconv.Quote(lit)
	case nil:
		return "undefined"
	case float64:
		return strconv.FormatFloat(lit, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", lit)
	}
}

// NewValue builds a Value node, copying position information from tok.
func NewValue(tok token.Token, literal any) *Value {
	return &Value{Tok: tok, Literal: literal}
}

// Word is an identifier reference.
type Word struct {
	Tok  token.Token
	Name string
}

func (w *Word) TokenLiteral() string { return w.Tok.Literal }
func (w *Word) Pos() token.Position  { return w.Tok.Pos }
func (w *Word) String() string       { return w.Name }

// HasMemberPath reports whether Name is a dotted reference (e.g. "obj.field")
// produced because the lexer admits '.' as an ordinary word rune.
func (w *Word) HasMemberPath() bool { return strings.Contains(w.Name, ".") }

// Segments splits a dotted Name into its path components.
func (w *Word) Segments() []string { return strings.Split(w.Name, ".") }

// Call is an operator applied to an argument list: Operator(Args...).
// Operator is itself any Node (typically a Word, or a nested Call that
// evaluates to a callable).
type Call struct {
	Tok      token.Token // the opening bracket token, for position/errors
	Operator Node
	Args     []Node
}

func (c *Call) TokenLiteral() string { return c.Tok.Literal }
func (c *Call) Pos() token.Position {
	if c.Operator != nil {
		return c.Operator.Pos()
	}
	return c.Tok.Pos
}
func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Operator.String())
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// MethodCall is the synthetic fourth node variant: it is never produced by
// the parser. The evaluator constructs one transiently when it needs a
// {receiver, key} reference pair to resolve a dotted Word used as an
// assignment target.
type MethodCall struct {
	Tok      token.Token
	Receiver Node
	Key      string
	Args     []Node
}

func (m *MethodCall) TokenLiteral() string { return m.Tok.Literal }
func (m *MethodCall) Pos() token.Position  { return m.Tok.Pos }
func (m *MethodCall) String() string {
	var sb strings.Builder
	sb.WriteString(m.Receiver.String())
	sb.WriteByte('.')
	sb.WriteString(m.Key)
	sb.WriteByte('(')
	for i, a := range m.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
