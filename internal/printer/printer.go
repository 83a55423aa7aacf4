// Package printer renders an AST back to a canonical, re-parseable pls
// source string via a recursive node-to-source walk. Distinct from
// internal/codegen, which lowers to a different target language.
package printer

import (
	"strings"

	"github.com/pls-lang/pls/internal/ast"
)

// Printer renders an AST with consistent indentation. The zero value is
// ready to use (two-space indent).
type Printer struct {
	// IndentWidth is the number of spaces per nesting level. Zero means 2.
	IndentWidth int
}

// Print renders node as canonical, re-parseable pls source.
func Print(node ast.Node) string {
	return (&Printer{}).Print(node)
}

func (p *Printer) indentWidth() int {
	if p.IndentWidth <= 0 {
		return 2
	}
	return p.IndentWidth
}

// Print renders node as canonical pls source, starting at depth 0.
func (p *Printer) Print(node ast.Node) string {
	var sb strings.Builder
	p.write(&sb, node, 0)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, node ast.Node, depth int) {
	switch n := node.(type) {
	case *ast.Value:
		sb.WriteString(n.String())
	case *ast.Word:
		sb.WriteString(n.String())
	case *ast.Call:
		p.writeCall(sb, n.Operator, n.Args, depth)
	case *ast.MethodCall:
		p.write(sb, n.Receiver, depth)
		sb.WriteByte('.')
		sb.WriteString(n.Key)
		p.writeArgs(sb, n.Args, depth)
	default:
		sb.WriteString(node.String())
	}
}

func (p *Printer) writeCall(sb *strings.Builder, operator ast.Node, args []ast.Node, depth int) {
	p.write(sb, operator, depth)
	p.writeArgs(sb, args, depth)
}

// writeArgs renders an argument list. Lists that needsExpansion accepts are
// laid out one argument per line; all others stay on one line, matching
// the compact-vs-expanded texture of a real formatter.
func (p *Printer) writeArgs(sb *strings.Builder, args []ast.Node, depth int) {
	sb.WriteByte('(')
	if len(args) == 0 {
		sb.WriteByte(')')
		return
	}
	if !needsExpansion(args) {
		for i, a := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(sb, a, depth)
		}
		sb.WriteByte(')')
		return
	}

	indent := strings.Repeat(" ", p.indentWidth()*(depth+1))
	closing := strings.Repeat(" ", p.indentWidth()*depth)
	for i, a := range args {
		sb.WriteByte('\n')
		sb.WriteString(indent)
		p.write(sb, a, depth+1)
		if i < len(args)-1 {
			sb.WriteByte(',')
		}
	}
	sb.WriteByte('\n')
	sb.WriteString(closing)
	sb.WriteByte(')')
}

// needsExpansion reports whether an argument list should be laid out one
// argument per line: more than two arguments, or any argument that is
// itself a non-trivial (multi-arg) Call.
func needsExpansion(args []ast.Node) bool {
	if len(args) > 2 {
		return true
	}
	for _, a := range args {
		if c, ok := a.(*ast.Call); ok && len(c.Args) > 1 {
			return true
		}
	}
	return false
}
