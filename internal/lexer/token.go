package lexer

import (
	"fmt"

	"github.com/mylang-lang/mylang/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenString
	TokenChar
	TokenHex
	TokenBits
	TokenDec

	// Keywords
	TokenDef
	TokenEnd
	TokenIf
	TokenThen
	TokenElse
	TokenWhile
	TokenUntil
	TokenBreak
	TokenBegin
	TokenArray
	TokenOf
	TokenTrue
	TokenFalse

	// Builtin type names
	TokenBoolType
	TokenByteType
	TokenIntType
	TokenUintType
	TokenLongType
	TokenUlongType
	TokenCharType
	TokenStringType

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenShl
	TokenShr
	TokenNot
	TokenBitNot
	TokenAssign

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemicolon
	TokenDotDot
	TokenColon
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "IDENTIFIER",
	TokenString:     "STRING",
	TokenChar:       "CHAR",
	TokenHex:        "HEX",
	TokenBits:       "BITS",
	TokenDec:        "DEC",

	TokenDef:   "DEF",
	TokenEnd:   "END",
	TokenIf:    "IF",
	TokenThen:  "THEN",
	TokenElse:  "ELSE",
	TokenWhile: "WHILE",
	TokenUntil: "UNTIL",
	TokenBreak: "BREAK",
	TokenBegin: "BEGIN",
	TokenArray: "ARRAY",
	TokenOf:    "OF",
	TokenTrue:  "TRUE",
	TokenFalse: "FALSE",

	TokenBoolType:   "BOOL_TYPE",
	TokenByteType:   "BYTE_TYPE",
	TokenIntType:    "INT_TYPE",
	TokenUintType:   "UINT_TYPE",
	TokenLongType:   "LONG_TYPE",
	TokenUlongType:  "ULONG_TYPE",
	TokenCharType:   "CHAR_TYPE",
	TokenStringType: "STRING_TYPE",

	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenMul:    "MUL",
	TokenDiv:    "DIV",
	TokenMod:    "MOD",
	TokenEq:     "EQ",
	TokenNe:     "NE",
	TokenLt:     "LT",
	TokenLe:     "LE",
	TokenGt:     "GT",
	TokenGe:     "GE",
	TokenAnd:    "AND",
	TokenOr:     "OR",
	TokenBitAnd: "BIT_AND",
	TokenBitOr:  "BIT_OR",
	TokenBitXor: "BIT_XOR",
	TokenShl:    "SHL",
	TokenShr:    "SHR",
	TokenNot:    "NOT",
	TokenBitNot: "BIT_NOT",
	TokenAssign: "ASSIGN",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenDotDot:    "DOTDOT",
	TokenColon:     "COLON",
}

// keywords maps reserved words to their token types. The table is
// consulted before an identifier token is emitted.
var keywords = map[string]TokenType{
	"def":   TokenDef,
	"end":   TokenEnd,
	"if":    TokenIf,
	"then":  TokenThen,
	"else":  TokenElse,
	"while": TokenWhile,
	"until": TokenUntil,
	"break": TokenBreak,
	"begin": TokenBegin,
	"array": TokenArray,
	"of":    TokenOf,
	"true":  TokenTrue,
	"false": TokenFalse,

	"bool":   TokenBoolType,
	"byte":   TokenByteType,
	"int":    TokenIntType,
	"uint":   TokenUintType,
	"long":   TokenLongType,
	"ulong":  TokenUlongType,
	"char":   TokenCharType,
	"string": TokenStringType,
}

// LookupIdent returns the keyword token type for ident, or
// TokenIdentifier if ident is not reserved.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// IsBuiltinType reports whether tt names one of the builtin types.
func (tt TokenType) IsBuiltinType() bool {
	return tt >= TokenBoolType && tt <= TokenStringType
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenDef && tt <= TokenStringType
}

// Token represents a lexical token with position information.
// Literal is the exact source text of the token.
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// Pos returns the start position of the token.
func (t Token) Pos() position.Position {
	return t.Span.Start
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Span.Start.Line, t.Span.Start.Column)
}

// tokenText holds the fixed spelling of keywords and operators.
var tokenText = func() map[TokenType]string {
	m := make(map[TokenType]string)
	for text, tt := range keywords {
		m[tt] = text
	}
	for text, tt := range twoCharOperators {
		m[tt] = text
	}
	for ch, tt := range oneCharOperators {
		m[tt] = string(ch)
	}
	return m
}()

var tokenClassNames = map[TokenType]string{
	TokenEOF:        "end of input",
	TokenError:      "invalid token",
	TokenIdentifier: "identifier",
	TokenString:     "string literal",
	TokenChar:       "char literal",
	TokenHex:        "hex literal",
	TokenBits:       "bits literal",
	TokenDec:        "decimal literal",
}

// Describe returns a human readable name for tt for use in messages:
// the quoted spelling of a keyword or operator, otherwise its class.
func (tt TokenType) Describe() string {
	if text, ok := tokenText[tt]; ok {
		return "'" + text + "'"
	}
	if name, ok := tokenClassNames[tt]; ok {
		return name
	}
	return tt.String()
}
