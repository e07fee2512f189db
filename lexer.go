// lexer.go: scanner for the commit-template language.
//
// The surface is tiny: identifiers, double-quoted string literals,
// parentheses, commas, dots, and whitespace between terms. String
// literals keep their escape sequences encoded; the builder decodes (and
// validates) them later, so the lexer only needs to find the closing
// quote. Every token carries byte offsets and 1-based line / 0-based
// column coordinates for diagnostics.
package jj

import "fmt"

type TokenType int

const (
	EOF TokenType = iota
	IDENT
	STRING
	LPAREN
	RPAREN
	COMMA
	DOT
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case STRING:
		return "string"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case COMMA:
		return "','"
	case DOT:
		return "'.'"
	default:
		return "unknown token"
	}
}

// Token is a lexical token. For STRING tokens Lexeme is the raw text
// between the quotes, escapes still encoded.
type Token struct {
	Type   TokenType
	Lexeme string
	Start  int // byte offset, inclusive
	End    int // byte offset, exclusive
	Line   int // 1-based
	Col    int // 0-based
}

// LexError reports a scanning failure with 1-based line and 0-based col.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Lexer scans a template source string into tokens.
type Lexer struct {
	src  string
	cur  int
	line int
	col  int
}

// Lex scans src into a token slice ending with an EOF token.
func Lex(src string) ([]Token, error) {
	lx := &Lexer{src: src, line: 1}
	var tokens []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (lx *Lexer) next() (Token, error) {
	lx.skipWhitespace()
	start, line, col := lx.cur, lx.line, lx.col
	if lx.cur >= len(lx.src) {
		return Token{Type: EOF, Start: start, End: start, Line: line, Col: col}, nil
	}
	c := lx.src[lx.cur]
	switch {
	case c == '(':
		lx.advance()
		return lx.token(LPAREN, start, line, col), nil
	case c == ')':
		lx.advance()
		return lx.token(RPAREN, start, line, col), nil
	case c == ',':
		lx.advance()
		return lx.token(COMMA, start, line, col), nil
	case c == '.':
		lx.advance()
		return lx.token(DOT, start, line, col), nil
	case c == '"':
		return lx.scanString(start, line, col)
	case isIdentByte(c):
		for lx.cur < len(lx.src) && isIdentByte(lx.src[lx.cur]) {
			lx.advance()
		}
		return lx.token(IDENT, start, line, col), nil
	default:
		return Token{}, &LexError{Line: line, Col: col, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
}

// scanString consumes a double-quoted literal. A backslash always
// swallows the following byte so that escaped quotes and backslashes do
// not terminate the literal; whether the escape is valid is decided at
// build time.
func (lx *Lexer) scanString(start, line, col int) (Token, error) {
	lx.advance() // opening quote
	for lx.cur < len(lx.src) {
		switch lx.src[lx.cur] {
		case '\\':
			lx.advance()
			if lx.cur >= len(lx.src) {
				return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string literal"}
			}
			lx.advance()
		case '"':
			inner := lx.src[start+1 : lx.cur]
			lx.advance() // closing quote
			return Token{Type: STRING, Lexeme: inner, Start: start, End: lx.cur, Line: line, Col: col}, nil
		default:
			lx.advance()
		}
	}
	return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string literal"}
}

func (lx *Lexer) token(t TokenType, start, line, col int) Token {
	return Token{Type: t, Lexeme: lx.src[start:lx.cur], Start: start, End: lx.cur, Line: line, Col: col}
}

func (lx *Lexer) skipWhitespace() {
	for lx.cur < len(lx.src) {
		switch lx.src[lx.cur] {
		case ' ', '\t', '\r', '\n', '\x0c':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *Lexer) advance() {
	if lx.src[lx.cur] == '\n' {
		lx.line++
		lx.col = 0
	} else {
		lx.col++
	}
	lx.cur++
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
