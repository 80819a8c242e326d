// Package lexer implements the mylang lexical analyzer.
//
// The lexer is a lazy producer: each call to NextToken scans exactly one
// token. Whitespace and // comments are skipped and never emitted.
package lexer

import (
	"unicode/utf8"

	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/position"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of ch
	column       int  // column of ch

	err *errors.Error // first lexical error; sticky
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the tokens up to and
// including EOF. It stops at the first lexical error.
func Tokenize(filename, input string) ([]Token, error) {
	l := NewWithFilename(input, filename)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenError {
			return tokens, l.Err()
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Err returns the lexical error that produced a TokenError, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition > 0 {
		if l.position >= len(l.input) {
			return
		}
		if l.ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// skipWhitespace skips blanks, newlines and // comments
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// twoCharOperators are matched before single-character operators so
// that the longest lexeme wins.
var twoCharOperators = map[string]TokenType{
	"==": TokenEq,
	"!=": TokenNe,
	"<=": TokenLe,
	">=": TokenGe,
	"&&": TokenAnd,
	"||": TokenOr,
	"<<": TokenShl,
	">>": TokenShr,
	"..": TokenDotDot,
}

var oneCharOperators = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMul,
	'/': TokenDiv,
	'%': TokenMod,
	'<': TokenLt,
	'>': TokenGt,
	'&': TokenBitAnd,
	'|': TokenBitOr,
	'^': TokenBitXor,
	'!': TokenNot,
	'~': TokenBitNot,
	'=': TokenAssign,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	'{': TokenLBrace,
	'}': TokenRBrace,
	',': TokenComma,
	';': TokenSemicolon,
	':': TokenColon,
}

// NextToken scans the input and returns the next token. At end of input
// it returns TokenEOF on every call. After a lexical error it returns
// TokenError on every call; Err reports the cause.
func (l *Lexer) NextToken() Token {
	if l.err != nil {
		return l.errorToken()
	}

	l.skipWhitespace()
	start := l.currentPosition()

	if l.atEOF() {
		return Token{Type: TokenEOF, Span: position.SpanBetween(start, start)}
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		lit := l.readIdentifier()
		return l.newToken(LookupIdent(lit), lit, start)
	case isDigit(l.ch):
		tt, lit := l.readNumber()
		return l.newToken(tt, lit, start)
	case l.ch == '"':
		return l.readString(start)
	case l.ch == '\'':
		return l.readCharLiteral(start)
	}

	if l.position+2 <= len(l.input) {
		if tt, ok := twoCharOperators[l.input[l.position:l.position+2]]; ok {
			lit := l.input[l.position : l.position+2]
			l.readChar()
			l.readChar()
			return l.newToken(tt, lit, start)
		}
	}

	if tt, ok := oneCharOperators[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return l.newToken(tt, lit, start)
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return l.fail(errors.Lex(start, errors.CodeInvalidChar, "unexpected character %q", r))
}

func (l *Lexer) newToken(tt TokenType, literal string, start position.Position) Token {
	return Token{Type: tt, Literal: literal, Span: position.SpanBetween(start, l.currentPosition())}
}

func (l *Lexer) fail(err *errors.Error) Token {
	l.err = err
	return l.errorToken()
}

func (l *Lexer) errorToken() Token {
	return Token{Type: TokenError, Literal: l.err.Message, Span: position.SpanBetween(l.err.Pos, l.err.Pos)}
}

// readIdentifier reads [a-zA-Z_][a-zA-Z_0-9]*
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads a hex (0x), bits (0b) or decimal literal. A prefix
// without a following digit is read as the decimal 0; the letter then
// starts the next token.
func (l *Lexer) readNumber() (TokenType, string) {
	start := l.position

	if l.ch == '0' && l.position+2 < len(l.input) {
		next, digit := l.input[l.position+1], l.input[l.position+2]
		switch {
		case (next == 'x' || next == 'X') && isHexDigit(digit):
			l.readChar()
			l.readChar()
			for isHexDigit(l.ch) {
				l.readChar()
			}
			return TokenHex, l.input[start:l.position]
		case (next == 'b' || next == 'B') && isBitDigit(digit):
			l.readChar()
			l.readChar()
			for isBitDigit(l.ch) {
				l.readChar()
			}
			return TokenBits, l.input[start:l.position]
		}
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	return TokenDec, l.input[start:l.position]
}

// readString reads a double-quoted string; a backslash escapes the
// following character, including a quote. The literal keeps its quotes.
func (l *Lexer) readString(start position.Position) Token {
	begin := l.position
	l.readChar() // opening quote

	for {
		if l.atEOF() {
			err := errors.Lex(start, errors.CodeUnterminatedString, "unterminated string literal")
			err.Incomplete = true
			return l.fail(err)
		}
		switch l.ch {
		case '"':
			l.readChar()
			return l.newToken(TokenString, l.input[begin:l.position], start)
		case '\\':
			l.readChar()
			if l.atEOF() {
				continue
			}
		}
		l.readChar()
	}
}

// readCharLiteral reads exactly one non-quote character between single
// quotes.
func (l *Lexer) readCharLiteral(start position.Position) Token {
	begin := l.position
	l.readChar() // opening quote

	if l.atEOF() {
		err := errors.Lex(start, errors.CodeUnterminatedChar, "unterminated char literal")
		err.Incomplete = true
		return l.fail(err)
	}
	if l.ch == '\'' {
		return l.fail(errors.Lex(start, errors.CodeInvalidLiteral, "empty char literal"))
	}

	_, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}

	if l.ch != '\'' {
		err := errors.Lex(start, errors.CodeUnterminatedChar, "unterminated char literal")
		err.Incomplete = l.atEOF()
		return l.fail(err)
	}
	l.readChar()
	return l.newToken(TokenChar, l.input[begin:l.position], start)
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isBitDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

// LookupOperator returns the token type of an operator spelling, or
// TokenError if op is not an operator.
func LookupOperator(op string) TokenType {
	if tt, ok := twoCharOperators[op]; ok {
		return tt
	}
	if len(op) == 1 {
		if tt, ok := oneCharOperators[op[0]]; ok {
			return tt
		}
	}
	return TokenError
}
