// Package parser implements the recursive-descent parser for pls source,
// converting a token.Token stream into an ast.Node tree.
//
// Grammar:
//
//	expression := (Word call_tail?) | Value
//	call_tail  := '(' (expression (',' expression)*)? ')'
//	            | '{' (expression (',' expression)*)? '}'
//
// Call tails chain left-associatively and are parsed with a loop rather
// than right-recursion, to avoid unbounded stack growth on long chains.
package parser

import (
	"fmt"

	"github.com/pls-lang/pls/internal/ast"
	"github.com/pls-lang/pls/internal/lexer"
	"github.com/pls-lang/pls/internal/token"
)

// Error is a syntax-level parse failure with source position.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string { return e.Message }

// Parser consumes a lexer.Lexer and produces an ast.Node tree.
type Parser struct {
	l *lexer.Lexer
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse parses a single top-level expression and requires EndOfInput to
// follow; trailing tokens after a complete expression are a syntax error.
func (p *Parser) Parse() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, err := p.l.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.EndOfInput {
		switch tok.Kind {
		case token.RightParen:
			return nil, &Error{Message: fmt.Sprintf("Unmatched parenthesis at line %d and column %d", tok.Pos.Line, tok.Pos.Column), Pos: tok.Pos}
		case token.Comma:
			return nil, &Error{Message: fmt.Sprintf("Unexpected comma after program at line %d and column %d", tok.Pos.Line, tok.Pos.Column), Pos: tok.Pos}
		default:
			return nil, &Error{Message: fmt.Sprintf("Unexpected text after program at line %d and column %d", tok.Pos.Line, tok.Pos.Column), Pos: tok.Pos}
		}
	}
	return expr, nil
}

// parseExpression parses either a Word (optionally followed by one or more
// chained call tails) or a literal Value.
func (p *Parser) parseExpression() (ast.Node, error) {
	tok, err := p.l.Next()
	if err != nil {
		return nil, err
	}

	var expr ast.Node
	switch tok.Kind {
	case token.Word:
		expr = &ast.Word{Tok: tok, Name: tok.Literal}
	case token.String:
		expr = ast.NewValue(tok, tok.Literal)
	case token.Number:
		expr = ast.NewValue(tok, tok.Value)
	case token.EndOfInput:
		return nil, &Error{Message: "Unexpected EOF", Pos: tok.Pos}
	default:
		return nil, &Error{
			Message: fmt.Sprintf("Unexpected token: %s at line %d and column %d", tokenText(tok), tok.Pos.Line, tok.Pos.Column),
			Pos:     tok.Pos,
		}
	}

	for {
		peeked, err := p.l.Peek()
		if err != nil {
			return nil, err
		}
		if peeked.Kind != token.LeftParen {
			break
		}
		expr, err = p.parseCallTail(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// parseCallTail parses a single '(' args ')' or '{' args '}' group applied
// to operator, consuming the matching closer.
func (p *Parser) parseCallTail(operator ast.Node) (ast.Node, error) {
	opener, err := p.l.Next() // the LeftParen, already confirmed by caller
	if err != nil {
		return nil, err
	}
	closer := token.MatchingCloser(opener.Literal)

	call := &ast.Call{Tok: opener, Operator: operator}

	peeked, err := p.l.Peek()
	if err != nil {
		return nil, err
	}
	if peeked.Kind == token.RightParen {
		if peeked.Literal != closer {
			return nil, mismatchedCloser(peeked, closer)
		}
		if _, err := p.l.Next(); err != nil {
			return nil, err
		}
		return call, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		next, err := p.l.Peek()
		if err != nil {
			return nil, err
		}
		switch next.Kind {
		case token.Comma:
			if _, err := p.l.Next(); err != nil {
				return nil, err
			}
			// A trailing comma is rejected: the token after it must be
			// another expression, never the closer.
			after, err := p.l.Peek()
			if err != nil {
				return nil, err
			}
			if after.Kind == token.RightParen {
				return nil, &Error{
					Message: fmt.Sprintf("Unexpected token: %s at line %d and column %d", tokenText(after), after.Pos.Line, after.Pos.Column),
					Pos:     after.Pos,
				}
			}
			continue
		case token.RightParen:
			if next.Literal != closer {
				return nil, mismatchedCloser(next, closer)
			}
			if _, err := p.l.Next(); err != nil {
				return nil, err
			}
			return call, nil
		case token.EndOfInput:
			return nil, &Error{Message: "Unexpected EOF", Pos: next.Pos}
		default:
			expectedMsg := "Expected ',' or ')'"
			if closer == "}" {
				expectedMsg = "Expected ',' or '}'"
			}
			return nil, &Error{
				Message: fmt.Sprintf("%s at line %d and column %d", expectedMsg, next.Pos.Line, next.Pos.Column),
				Pos:     next.Pos,
			}
		}
	}
}

func mismatchedCloser(got token.Token, want string) error {
	return &Error{
		Message: fmt.Sprintf("Unexpected token: %s at line %d and column %d", got.Literal, got.Pos.Line, got.Pos.Column),
		Pos:     got.Pos,
	}
}

func tokenText(tok token.Token) string {
	switch tok.Kind {
	case token.EndOfInput:
		return "<EOF>"
	case token.Number:
		return tok.Literal
	case token.String:
		return tok.Literal
	default:
		return tok.Literal
	}
}

// Parse is a package-level convenience that lexes and parses source in one
// call.
func Parse(source string) (ast.Node, error) {
	return New(lexer.New(source)).Parse()
}
