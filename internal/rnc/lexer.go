package rnc

import (
	"unicode"
	"unicode/utf8"

	"github.com/reoring/jsonrnc/internal/ir"
)

// Lex splits schema source into tokens. The result always ends with a
// TokenEOF token. Whitespace and comments (from '#' to end of line) are
// dropped.
func Lex(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

var punct = map[rune]TokenKind{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	':': TokenColon,
	'?': TokenQuestion,
	'|': TokenBar,
	'@': TokenAt,
	'=': TokenEqual,
	',': TokenComma,
	'*': TokenStar,
}

func (lx *lexer) pos() ir.Pos { return ir.Pos{Line: lx.line, Column: lx.col} }

// peek returns the rune at the current offset without consuming it; -1 at
// end of input.
func (lx *lexer) peek() rune {
	if lx.off >= len(lx.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r
}

func (lx *lexer) peekAt(n int) rune {
	off := lx.off
	for i := 0; i < n; i++ {
		if off >= len(lx.src) {
			return -1
		}
		_, w := utf8.DecodeRuneInString(lx.src[off:])
		off += w
	}
	if off >= len(lx.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lx.src[off:])
	return r
}

func (lx *lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += w
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) skipSpaceAndComments() {
	for {
		switch r := lx.peek(); {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\uFEFF':
			lx.advance()
		case r == '#':
			for r := lx.peek(); r != -1 && r != '\n'; r = lx.peek() {
				lx.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (lx *lexer) next() (Token, error) {
	lx.skipSpaceAndComments()
	start := lx.pos()
	r := lx.peek()
	switch {
	case r == -1:
		return Token{Kind: TokenEOF, Pos: start}, nil
	case r == '"' || r == '\'':
		return lx.lexString(start, r)
	case r == '/':
		return lx.lexRegex(start)
	case isDigit(r) || (r == '-' && isDigit(lx.peekAt(1))):
		return lx.lexNumber(start), nil
	case isIdentStart(r):
		begin := lx.off
		for isIdentPart(lx.peek()) {
			lx.advance()
		}
		return Token{Kind: TokenIdent, Text: lx.src[begin:lx.off], Pos: start}, nil
	}
	if k, ok := punct[r]; ok {
		lx.advance()
		return Token{Kind: k, Text: string(r), Pos: start}, nil
	}
	return Token{}, &LexError{Pos: start, Char: r}
}

// lexString keeps the content between the quotes as written; a backslash
// only protects the next character from ending the literal.
func (lx *lexer) lexString(start ir.Pos, quote rune) (Token, error) {
	lx.advance()
	begin := lx.off
	for {
		r := lx.peek()
		switch r {
		case -1, '\n':
			return Token{}, &LexError{Pos: start, Char: quote, Msg: "unterminated string"}
		case '\\':
			lx.advance()
			if n := lx.peek(); n == -1 || n == '\n' {
				return Token{}, &LexError{Pos: start, Char: quote, Msg: "unterminated string"}
			}
			lx.advance()
		case quote:
			text := lx.src[begin:lx.off]
			lx.advance()
			return Token{Kind: TokenString, Text: text, Pos: start}, nil
		default:
			lx.advance()
		}
	}
}

func (lx *lexer) lexRegex(start ir.Pos) (Token, error) {
	lx.advance()
	begin := lx.off
	for {
		switch r := lx.peek(); r {
		case -1, '\n':
			return Token{}, &LexError{Pos: start, Char: '/', Msg: "unterminated regex"}
		case '\\':
			// \/ keeps a slash inside the literal
			lx.advance()
			if n := lx.peek(); n != -1 && n != '\n' {
				lx.advance()
			}
		case '/':
			text := lx.src[begin:lx.off]
			lx.advance()
			return Token{Kind: TokenRegex, Text: text, Pos: start}, nil
		default:
			lx.advance()
		}
	}
}

func (lx *lexer) lexNumber(start ir.Pos) Token {
	begin := lx.off
	if lx.peek() == '-' {
		lx.advance()
	}
	for isDigit(lx.peek()) {
		lx.advance()
	}
	if lx.peek() == '.' {
		lx.advance()
		for isDigit(lx.peek()) {
			lx.advance()
		}
	}
	return Token{Kind: TokenNumber, Text: lx.src[begin:lx.off], Pos: start}
}
