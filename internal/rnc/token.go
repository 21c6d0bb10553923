package rnc

import (
	"strconv"

	"github.com/reoring/jsonrnc/internal/ir"
)

// TokenKind enumerates schema token kinds.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenString
	TokenRegex
	TokenNumber
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
	TokenColon    // :
	TokenQuestion // ?
	TokenBar      // |
	TokenAt       // @
	TokenEqual    // =
	TokenComma    // ,
	TokenStar     // *
)

var tokenNames = [...]string{
	TokenEOF:      "end of file",
	TokenIdent:    "identifier",
	TokenString:   "string",
	TokenRegex:    "regex",
	TokenNumber:   "number",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenColon:    "':'",
	TokenQuestion: "'?'",
	TokenBar:      "'|'",
	TokenAt:       "'@'",
	TokenEqual:    "'='",
	TokenComma:    "','",
	TokenStar:     "'*'",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical unit. Text holds the identifier, the number literal,
// the string content without quotes, or the regex body without slashes.
type Token struct {
	Kind TokenKind
	Text string
	Pos  ir.Pos
}

func (t Token) String() string {
	switch t.Kind {
	case TokenIdent:
		return "identifier " + strconv.Quote(t.Text)
	case TokenString:
		return "string " + strconv.Quote(t.Text)
	case TokenRegex:
		return "regex /" + t.Text + "/"
	case TokenNumber:
		return "number " + t.Text
	}
	return t.Kind.String()
}

// Reserved words.
const (
	wordStart   = "start"
	wordString  = "string"
	wordInteger = "integer"
	wordNumber  = "number"
	wordBoolean = "boolean"
	wordNull    = "null"
	wordTrue    = "true"
	wordFalse   = "false"
)

// primitiveWord maps a reserved type word to its primitive type.
func primitiveWord(s string) (ir.PrimitiveType, bool) {
	switch s {
	case wordString:
		return ir.TypeString, true
	case wordInteger:
		return ir.TypeInteger, true
	case wordNumber:
		return ir.TypeNumber, true
	case wordBoolean:
		return ir.TypeBoolean, true
	case wordNull:
		return ir.TypeNull, true
	}
	return "", false
}
