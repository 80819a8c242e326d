// Package errors provides the typed errors reported by the mylang lexer
// and parser.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/mylang-lang/mylang/internal/position"
)

// Kind is the category of a front-end error.
type Kind string

const (
	KindLex    Kind = "LexError"
	KindSyntax Kind = "SyntaxError"
)

// Error codes. Codes are stable and safe to match on.
const (
	CodeUnterminatedString = "UNTERMINATED_STRING"
	CodeUnterminatedChar   = "UNTERMINATED_CHAR"
	CodeInvalidChar        = "INVALID_CHAR"
	CodeInvalidLiteral     = "INVALID_LITERAL"

	CodeUnexpectedToken  = "UNEXPECTED_TOKEN"
	CodeMissingToken     = "MISSING_TOKEN"
	CodeExpectedExpr     = "EXPECTED_EXPRESSION"
	CodeExpectedType     = "EXPECTED_TYPE"
	CodeExpectedStmt     = "EXPECTED_STATEMENT"
	CodeInvalidArraySize = "INVALID_ARRAY_SIZE"
)

// Error is a lexical or syntax error at a source position.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Pos     position.Position

	// Incomplete reports that the input ended before the construct was
	// finished. More input could make it valid.
	Incomplete bool
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// Lex creates a LexError
func Lex(pos position.Position, code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindLex, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Syntax creates a SyntaxError
func Syntax(pos position.Position, code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindSyntax, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// KindOf returns the kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsIncomplete reports whether err was caused by premature end of input.
func IsIncomplete(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Incomplete
}
