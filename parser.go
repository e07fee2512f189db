// parser.go: recursive-descent parser for the commit-template language.
//
// OVERVIEW
// --------
// The parser consumes the token stream from lexer.go and produces a tree
// of typed syntax nodes. The node-kind contract is fixed; the semantic
// builder (build.go) asserts it rather than re-validating it:
//
//	program            -> template? EOI
//	template           -> term+
//	term               -> ( "(" template ")" | function | identifier | literal ) maybe_method
//	function           -> identifier "(" function_arguments ")"
//	function_arguments -> template ("," template)* | nothing
//	maybe_method       -> ("." function)*
//	literal            -> (raw_literal | escape)*
//
// Terms inside a template are separated only by whitespace (consumed by
// the lexer); a template ends at EOF, ')' or ','. String literals are
// split into raw_literal and escape child nodes with the escapes still
// encoded; decoding and validation happen in the builder so that an
// invalid escape is a construction-time error with a precise position.
//
// Every node carries the line/col of its first token for diagnostics.
package jj

import "fmt"

type NodeKind int

const (
	KindProgram NodeKind = iota
	KindTemplate
	KindTerm
	KindLiteral
	KindRawLiteral
	KindEscape
	KindIdentifier
	KindFunction
	KindFunctionArguments
	KindMaybeMethod
	KindEOI
)

func (k NodeKind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindTemplate:
		return "template"
	case KindTerm:
		return "term"
	case KindLiteral:
		return "literal"
	case KindRawLiteral:
		return "raw_literal"
	case KindEscape:
		return "escape"
	case KindIdentifier:
		return "identifier"
	case KindFunction:
		return "function"
	case KindFunctionArguments:
		return "function_arguments"
	case KindMaybeMethod:
		return "maybe_method"
	case KindEOI:
		return "EOI"
	default:
		return "unknown"
	}
}

// Node is one immutable syntax-tree node: a kind tag, the matched text
// (identifier names, literal segments) and ordered children.
type Node struct {
	Kind     NodeKind
	Text     string
	Children []*Node
	Line     int // 1-based
	Col      int // 0-based
}

// ParseError reports a structural failure with 1-based line and 0-based col.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Parse scans and parses a full template source into a program node.
func Parse(src string) (*Node, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) take() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return Token{}, p.errorf(tok, "expected %s, found %s", t, tok.Type)
	}
	return p.take(), nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

func nodeAt(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Line: tok.Line, Col: tok.Col}
}

// parseProgram parses "template? EOI". An empty source still yields a
// program node, with the EOI child alone.
func (p *parser) parseProgram() (*Node, error) {
	program := nodeAt(KindProgram, p.peek())
	if p.peek().Type != EOF {
		template, err := p.parseTemplate()
		if err != nil {
			return nil, err
		}
		program.Children = append(program.Children, template)
	}
	eofTok, err := p.expect(EOF)
	if err != nil {
		return nil, err
	}
	program.Children = append(program.Children, nodeAt(KindEOI, eofTok))
	return program, nil
}

// startsTerm reports whether a token can open a term.
func startsTerm(t TokenType) bool {
	return t == IDENT || t == STRING || t == LPAREN
}

func (p *parser) parseTemplate() (*Node, error) {
	first := p.peek()
	if !startsTerm(first.Type) {
		return nil, p.errorf(first, "expected a template term, found %s", first.Type)
	}
	template := nodeAt(KindTemplate, first)
	for startsTerm(p.peek().Type) {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		template.Children = append(template.Children, term)
	}
	return template, nil
}

// parseTerm parses one term: its head expression plus the trailing
// maybe_method node (always present, possibly empty).
func (p *parser) parseTerm() (*Node, error) {
	head := p.peek()
	term := nodeAt(KindTerm, head)

	var expr *Node
	var err error
	switch head.Type {
	case LPAREN:
		p.take()
		expr, err = p.parseTemplate()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
	case STRING:
		expr = p.parseLiteral(p.take())
	case IDENT:
		name := p.take()
		if p.peek().Type == LPAREN {
			expr, err = p.parseFunction(name)
			if err != nil {
				return nil, err
			}
		} else {
			expr = nodeAt(KindIdentifier, name)
			expr.Text = name.Lexeme
		}
	default:
		return nil, p.errorf(head, "expected a template term, found %s", head.Type)
	}

	method, err := p.parseMaybeMethod()
	if err != nil {
		return nil, err
	}
	term.Children = []*Node{expr, method}
	return term, nil
}

// parseFunction parses "( function_arguments )" after an already
// consumed name token.
func (p *parser) parseFunction(name Token) (*Node, error) {
	fn := nodeAt(KindFunction, name)
	ident := nodeAt(KindIdentifier, name)
	ident.Text = name.Lexeme

	lparen, err := p.expect(LPAREN)
	if err != nil {
		return nil, err
	}
	args := nodeAt(KindFunctionArguments, lparen)
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseTemplate()
			if err != nil {
				return nil, err
			}
			args.Children = append(args.Children, arg)
			if p.peek().Type != COMMA {
				break
			}
			p.take()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	fn.Children = []*Node{ident, args}
	return fn, nil
}

func (p *parser) parseMaybeMethod() (*Node, error) {
	method := nodeAt(KindMaybeMethod, p.peek())
	for p.peek().Type == DOT {
		p.take()
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		fn, err := p.parseFunction(name)
		if err != nil {
			return nil, err
		}
		method.Children = append(method.Children, fn)
	}
	return method, nil
}

// parseLiteral splits the raw inner text of a string token into
// raw_literal and escape child nodes. Escapes stay encoded ("\n" is the
// two bytes backslash, n); the builder decodes them. Each child carries
// the position of its own first byte, so an invalid escape is reported
// at the backslash rather than at the opening quote.
func (p *parser) parseLiteral(tok Token) *Node {
	lit := nodeAt(KindLiteral, tok)
	lit.Text = tok.Lexeme
	raw := tok.Lexeme

	segAt := func(kind NodeKind, off int, text string) *Node {
		line, col := literalPos(tok, raw, off)
		return &Node{Kind: kind, Text: text, Line: line, Col: col}
	}

	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			continue
		}
		if start < i {
			lit.Children = append(lit.Children, segAt(KindRawLiteral, start, raw[start:i]))
		}
		// The lexer guarantees a byte follows the backslash.
		lit.Children = append(lit.Children, segAt(KindEscape, i, raw[i:i+2]))
		i++
		start = i + 1
	}
	if start < len(raw) {
		lit.Children = append(lit.Children, segAt(KindRawLiteral, start, raw[start:]))
	}
	return lit
}

// literalPos locates byte offset off of a string token's inner text.
// Offset 0 sits one column after the opening quote; literal newlines
// inside the text advance the line.
func literalPos(tok Token, raw string, off int) (line, col int) {
	line, col = tok.Line, tok.Col+1
	for i := 0; i < off; i++ {
		if raw[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
