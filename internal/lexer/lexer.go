// Package lexer implements the streaming tokenizer for pls source.
//
// The lexer hands back tokens on demand with a single-token lookahead, the
// way a hand-rolled recursive-descent front end expects to consume them:
// Peek() to look without consuming, Next() to consume and advance.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pls-lang/pls/internal/token"
)

// Error is a lexical failure: an invalid token at a known position.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string { return e.Message }

// Lexer scans pls source text into a stream of Tokens.
type Lexer struct {
	input  string // NFC-normalized, CR-stripped source
	pos    int    // byte offset of the next unread rune
	line   int
	column int // 1-based column of the next unread rune, in runes

	lookahead    token.Token
	haveLookhead bool
}

// New creates a Lexer over src. Carriage returns are stripped and the text
// is NFC-normalized so that visually identical but differently-composed
// Word identifiers compare equal; identifiers are not restricted to ASCII
// letters.
func New(src string) *Lexer {
	src = strings.ReplaceAll(src, "\r", "")
	src = norm.NFC.String(src)
	return &Lexer{input: src, line: 1, column: 1}
}

// Peek returns the current lookahead token without consuming it.
func (l *Lexer) Peek() (token.Token, error) {
	if !l.haveLookhead {
		tok, err := l.scan()
		if err != nil {
			return token.Token{}, err
		}
		l.lookahead = tok
		l.haveLookhead = true
	}
	return l.lookahead, nil
}

// Next consumes and returns the current lookahead, advancing the stream.
func (l *Lexer) Next() (token.Token, error) {
	tok, err := l.Peek()
	if err != nil {
		return token.Token{}, err
	}
	l.haveLookhead = false
	return tok, nil
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) currentPos() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// peekRune returns the rune at the current position and its byte width,
// without advancing.
func (l *Lexer) peekRune() (rune, int) {
	if l.atEnd() {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, size
}

func (l *Lexer) peekRuneAt(offset int) (rune, int) {
	if l.pos+offset >= len(l.input) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos+offset:])
	return r, size
}

// advanceRune consumes one rune, updating line/column bookkeeping.
func (l *Lexer) advanceRune() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func isWordRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', '{', '}', ',', '"', '\'', '\\':
		return false
	}
	return true
}

func peekIs(l *Lexer, offset int, want rune) bool {
	r, size := l.peekRuneAt(offset)
	return size > 0 && r == want
}

// skipWhitespace consumes whitespace (any rune unicode.IsSpace accepts, not
// only ASCII), line comments ("// ...") and block comments ("/* ... */",
// non-nesting).
func (l *Lexer) skipWhitespace() error {
	for {
		r, _ := l.peekRune()
		switch {
		case r == 0:
			return nil
		case unicode.IsSpace(r):
			l.advanceRune()
		case r == '/' && peekIs(l, 1, '/'):
			for {
				r, size := l.peekRune()
				if size == 0 || r == '\n' {
					break
				}
				l.advanceRune()
			}
		case r == '/' && peekIs(l, 1, '*'):
			start := l.currentPos()
			l.advanceRune()
			l.advanceRune()
			closed := false
			for {
				r, size := l.peekRune()
				if size == 0 {
					break
				}
				if r == '*' && peekIs(l, 1, '/') {
					l.advanceRune()
					l.advanceRune()
					closed = true
					break
				}
				l.advanceRune()
			}
			if !closed {
				return &Error{Message: "Invalid token: unterminated block comment", Pos: start}
			}
		default:
			return nil
		}
	}
}

// scan produces the next token, skipping leading whitespace/comments.
func (l *Lexer) scan() (token.Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return token.Token{}, err
	}

	start := l.currentPos()
	r, size := l.peekRune()
	if size == 0 {
		return token.Token{Kind: token.EndOfInput, Pos: start}, nil
	}

	switch {
	case r == '"' || r == '\'':
		return l.scanString(start, r)
	case r == ',':
		l.advanceRune()
		return token.Token{Kind: token.Comma, Literal: ",", Pos: start}, nil
	case r == '(' || r == '{':
		l.advanceRune()
		return token.Token{Kind: token.LeftParen, Literal: string(r), Pos: start}, nil
	case r == ')' || r == '}':
		l.advanceRune()
		return token.Token{Kind: token.RightParen, Literal: string(r), Pos: start}, nil
	case isDigit(r) || ((r == '+' || r == '-') && isDigit(peekAfterSign(l))):
		return l.scanNumber(start)
	default:
		return l.scanWord(start)
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func peekAfterSign(l *Lexer) rune {
	r, _ := l.peekRuneAt(1)
	return r
}

// scanNumber consumes an optional sign, digits, an optional fractional
// part, and an optional exponent.
func (l *Lexer) scanNumber(start token.Position) (token.Token, error) {
	var sb strings.Builder

	if r, _ := l.peekRune(); r == '+' || r == '-' {
		sb.WriteRune(l.advanceRune())
	}
	for {
		r, size := l.peekRune()
		if size == 0 || !isDigit(r) {
			break
		}
		sb.WriteRune(l.advanceRune())
	}
	if r, _ := l.peekRune(); r == '.' {
		if next, _ := l.peekRuneAt(1); isDigit(next) {
			sb.WriteRune(l.advanceRune())
			for {
				r, size := l.peekRune()
				if size == 0 || !isDigit(r) {
					break
				}
				sb.WriteRune(l.advanceRune())
			}
		}
	}
	if r, _ := l.peekRune(); r == 'e' || r == 'E' {
		save := l.pos
		saveLine, saveCol := l.line, l.column
		var exp strings.Builder
		exp.WriteRune(l.advanceRune())
		if r, _ := l.peekRune(); r == '+' || r == '-' {
			exp.WriteRune(l.advanceRune())
		}
		digits := 0
		for {
			r, size := l.peekRune()
			if size == 0 || !isDigit(r) {
				break
			}
			exp.WriteRune(l.advanceRune())
			digits++
		}
		if digits > 0 {
			sb.WriteString(exp.String())
		} else {
			// Not a real exponent; rewind so 'e' becomes part of a Word
			// or a fresh token instead of being swallowed here.
			l.pos, l.line, l.column = save, saveLine, saveCol
		}
	}

	lit := sb.String()
	val, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return token.Token{}, &Error{Message: fmt.Sprintf("Invalid token: %s at line %d and column %d", lit, start.Line, start.Column), Pos: start}
	}
	return token.Token{Kind: token.Number, Literal: lit, Value: val, Pos: start}, nil
}

// scanWord consumes a maximal run of word runes.
func (l *Lexer) scanWord(start token.Position) (token.Token, error) {
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 || !isWordRune(r) {
			break
		}
		sb.WriteRune(l.advanceRune())
	}
	if sb.Len() == 0 {
		r, _ := l.peekRune()
		return token.Token{}, &Error{
			Message: fmt.Sprintf("Invalid token: %s at line %d and column %d", string(r), start.Line, start.Column),
			Pos:     start,
		}
	}
	return token.Token{Kind: token.Word, Literal: sb.String(), Pos: start}, nil
}

// scanString consumes a quoted string literal with escape-unquoting.
func (l *Lexer) scanString(start token.Position, delim rune) (token.Token, error) {
	l.advanceRune() // opening delimiter
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token.Token{}, &Error{Message: "Invalid token: unterminated string", Pos: start}
		}
		if r == delim {
			l.advanceRune()
			return token.Token{Kind: token.String, Literal: sb.String(), Pos: start}, nil
		}
		if r == '\\' {
			l.advanceRune()
			esc, size := l.peekRune()
			if size == 0 {
				return token.Token{}, &Error{Message: "Invalid token: unterminated string", Pos: start}
			}
			switch esc {
			case 'n':
				sb.WriteByte('\n')
				l.advanceRune()
			case 't':
				sb.WriteByte('\t')
				l.advanceRune()
			case 'r':
				sb.WriteByte('\r')
				l.advanceRune()
			case '\\':
				sb.WriteByte('\\')
				l.advanceRune()
			case '"':
				sb.WriteByte('"')
				l.advanceRune()
			case '\'':
				sb.WriteByte('\'')
				l.advanceRune()
			case '0':
				sb.WriteByte(0)
				l.advanceRune()
			case 'u':
				l.advanceRune()
				var hex strings.Builder
				for k := 0; k < 4; k++ {
					hr, size := l.peekRune()
					if size == 0 {
						return token.Token{}, &Error{Message: "Invalid token: bad unicode escape", Pos: start}
					}
					hex.WriteRune(hr)
					l.advanceRune()
				}
				code, err := strconv.ParseUint(hex.String(), 16, 32)
				if err != nil {
					return token.Token{}, &Error{Message: "Invalid token: bad unicode escape", Pos: start}
				}
				sb.WriteRune(rune(code))
			default:
				sb.WriteRune(esc)
				l.advanceRune()
			}
			continue
		}
		sb.WriteRune(l.advanceRune())
	}
}
