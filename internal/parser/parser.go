// Package parser implements the mylang recursive descent parser.
//
// Statements and declarations are parsed top-down with one token of
// lookahead. Expressions use precedence climbing over the binary operator
// table in expressions.go. Parsing stops at the first error.
package parser

import (
	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/lexer"
	"github.com/mylang-lang/mylang/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	prevEnd position.Position // end of the last consumed token
	err     error

	// pending holds a `while`/`until` header that followed a statement
	// without a closing `;`. The next statement in the enclosing sequence
	// is the loop it opens.
	pending *loopHeader

	// Parser state
	filename string
}

type loopHeader struct {
	start position.Position
	kind  ast.LoopKind
	cond  ast.Expr
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{lexer: l, filename: filename}
	p.current = l.NextToken()
	p.checkLexError()
	return p
}

// ParseFile parses a complete source file into a Program.
func ParseFile(filename, src string) (*ast.Program, error) {
	return NewParser(lexer.NewWithFilename(src, filename), filename).Parse()
}

// ParseProgram parses src with no file name attached to positions.
func ParseProgram(src string) (*ast.Program, error) {
	return ParseFile("", src)
}

// ParseStatements parses a sequence of block items, as found between
// `begin` and `end`, running to end of input.
func ParseStatements(filename, src string) ([]ast.BlockItem, error) {
	p := NewParser(lexer.NewWithFilename(src, filename), filename)
	items := p.parseBlockItems()
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return items, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	p := NewParser(lexer.New(src), "")
	x := p.parseExpression(LOWEST)
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return x, nil
}

// ParseType parses a single type reference.
func ParseType(src string) (ast.TypeRef, error) {
	p := NewParser(lexer.New(src), "")
	t := p.parseType()
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return t, nil
}

// Parse parses the input and returns an AST
func (p *Parser) Parse() (*ast.Program, error) {
	program := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// parseProgram parses the top level: a possibly empty run of function
// definitions.
func (p *Parser) parseProgram() *ast.Program {
	start := p.current.Pos()
	program := &ast.Program{Funcs: []*ast.FuncDef{}}

	for p.err == nil && !p.currentTokenIs(lexer.TokenEOF) {
		if !p.currentTokenIs(lexer.TokenDef) {
			p.errorAt(p.current, errors.CodeUnexpectedToken,
				"expected function definition, got %s", describe(p.current))
			break
		}
		if fn := p.parseFuncDef(); fn != nil {
			program.Funcs = append(program.Funcs, fn)
		}
	}

	end := p.current.Span.End
	if len(program.Funcs) > 0 {
		end = p.prevEnd
	} else {
		start = end
	}
	program.Span = position.SpanBetween(start, end)
	return program
}

// nextToken advances the parser to the next token
func (p *Parser) nextToken() {
	if p.err != nil {
		return
	}
	p.prevEnd = p.current.Span.End
	p.current = p.lexer.NextToken()
	p.checkLexError()
}

// checkLexError turns a lexer error token into the parser's error.
func (p *Parser) checkLexError() {
	if p.current.Type == lexer.TokenError {
		p.fail(p.lexer.Err())
	}
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) currentTokenIsAny(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.current.Type == tt {
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given type, otherwise
// it records a missing token error. what names the construct being closed
// or introduced and may be empty.
func (p *Parser) expect(tokenType lexer.TokenType, what string) (lexer.Token, bool) {
	if p.err != nil {
		return lexer.Token{}, false
	}
	tok := p.current
	if tok.Type != tokenType {
		msg := "expected " + tokenType.Describe()
		if what != "" {
			msg += " " + what
		}
		p.errorAt(tok, errors.CodeMissingToken, "%s, got %s", msg, describe(tok))
		return lexer.Token{}, false
	}
	p.nextToken()
	return tok, p.err == nil
}

func (p *Parser) expectEOF() {
	if p.err == nil && !p.currentTokenIs(lexer.TokenEOF) {
		p.errorAt(p.current, errors.CodeUnexpectedToken, "unexpected %s", describe(p.current))
	}
}

// errorAt records a syntax error located at tok. Errors raised on the EOF
// token are marked incomplete.
func (p *Parser) errorAt(tok lexer.Token, code, format string, args ...interface{}) {
	err := errors.Syntax(tok.Pos(), code, format, args...)
	err.Incomplete = tok.Type == lexer.TokenEOF
	p.fail(err)
}

// fail records the first error and parks the parser on EOF so that every
// loop unwinds.
func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
	p.current = lexer.Token{Type: lexer.TokenEOF, Span: position.SpanBetween(p.current.Span.Start, p.current.Span.Start)}
}

// spanFrom returns the span from start to the end of the last consumed
// token.
func (p *Parser) spanFrom(start position.Position) position.Span {
	return position.SpanBetween(start, p.prevEnd)
}

// describe renders a token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenString, lexer.TokenChar,
		lexer.TokenHex, lexer.TokenBits, lexer.TokenDec:
		return tok.Type.Describe() + " " + quote(tok.Literal)
	}
	return tok.Type.Describe()
}

func quote(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		return s
	}
	return "\"" + s + "\""
}
