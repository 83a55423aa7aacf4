// Package errors formats pls compiler/runtime errors with source context
// and a caret pointing at the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/pls-lang/pls/internal/lexer"
	"github.com/pls-lang/pls/internal/parser"
	"github.com/pls-lang/pls/internal/token"
)

// Kind distinguishes the four error categories pls reports.
type Kind int

const (
	// Syntax covers lexer/parser failures: invalid token, unexpected
	// token, unexpected EOF, missing separator, stray trailing input.
	Syntax Kind = iota
	// Semantic covers keyword misuse: wrong arity, wrong argument shape.
	Semantic
	// Reference covers lookup/assignment to an unbound name.
	Reference
	// Type covers callable arity mismatches and operations on
	// inappropriately shaped values.
	Type
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Semantic:
		return "SemanticError"
	case Reference:
		return "ReferenceError"
	case Type:
		return "TypeError"
	default:
		return "Error"
	}
}

// CompilerError is a single failure with position and source context.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a CompilerError of the given kind.
func New(kind Kind, pos token.Position, message string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message}
}

// WithSource attaches the originating source text and filename, enabling
// Format to render a source-line excerpt.
func (e *CompilerError) WithSource(source, file string) *CompilerError {
	e.Source = source
	e.File = file
	return e
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Format renders the error with a source-line excerpt and a caret under
// the offending column. If color is true, ANSI codes highlight the caret.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')

		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FromLexError converts a lexer failure (which carries only a message and
// position) into a CompilerError enriched with source text for pretty
// printing. Returns nil if err is not a *lexer.Error.
func FromLexError(err error, source, file string) *CompilerError {
	le, ok := err.(*lexer.Error)
	if !ok {
		return nil
	}
	return New(Syntax, le.Pos, le.Message).WithSource(source, file)
}

// FromParseError converts a parser failure into a CompilerError enriched
// with source text for pretty printing. Returns nil if err is not a
// *parser.Error.
func FromParseError(err error, source, file string) *CompilerError {
	pe, ok := err.(*parser.Error)
	if !ok {
		return nil
	}
	return New(Syntax, pe.Pos, pe.Message).WithSource(source, file)
}

// FormatErrors renders a batch of errors, one after another.
func FormatErrors(errs []*CompilerError, color bool) string {
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(e.Format(color))
		sb.WriteByte('\n')
	}
	return sb.String()
}
