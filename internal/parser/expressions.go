package parser

import (
	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/lexer"
	"github.com/mylang-lang/mylang/internal/position"
)

// Precedence represents operator precedence levels
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	ASSIGN      // =
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ~x
	POSTFIX     // f(x) x[i]
)

// precedences maps binary operator tokens to their precedence.
// Every level is left associative except ASSIGN.
var precedences = map[lexer.TokenType]Precedence{
	lexer.TokenAssign: ASSIGN,

	lexer.TokenOr:  LOGICAL_OR,
	lexer.TokenAnd: LOGICAL_AND,

	lexer.TokenBitOr:  BITWISE_OR,
	lexer.TokenBitXor: BITWISE_XOR,
	lexer.TokenBitAnd: BITWISE_AND,

	lexer.TokenEq: EQUALS,
	lexer.TokenNe: EQUALS,

	lexer.TokenLt: LESSGREATER,
	lexer.TokenLe: LESSGREATER,
	lexer.TokenGt: LESSGREATER,
	lexer.TokenGe: LESSGREATER,

	lexer.TokenShl: SHIFT,
	lexer.TokenShr: SHIFT,

	lexer.TokenPlus:  SUM,
	lexer.TokenMinus: SUM,

	lexer.TokenMul: PRODUCT,
	lexer.TokenDiv: PRODUCT,
	lexer.TokenMod: PRODUCT,
}

// BinaryPrecedence returns the precedence of the binary operator op, as
// spelled in source, and whether op is a binary operator.
func BinaryPrecedence(op string) (Precedence, bool) {
	prec, ok := precedences[lexer.LookupOperator(op)]
	return prec, ok
}

var literalKinds = map[lexer.TokenType]ast.LiteralKind{
	lexer.TokenTrue:   ast.LiteralBool,
	lexer.TokenFalse:  ast.LiteralBool,
	lexer.TokenString: ast.LiteralStr,
	lexer.TokenChar:   ast.LiteralChar,
	lexer.TokenHex:    ast.LiteralHex,
	lexer.TokenBits:   ast.LiteralBits,
	lexer.TokenDec:    ast.LiteralDec,
}

// canStartExpression reports whether tt may begin an expression.
func canStartExpression(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenLParen,
		lexer.TokenMinus, lexer.TokenNot, lexer.TokenBitNot:
		return true
	}
	_, ok := literalKinds[tt]
	return ok
}

// parseExpression parses an expression whose binary operators all bind at
// least as tightly as minPrec.
func (p *Parser) parseExpression(minPrec Precedence) ast.Expr {
	start := p.current.Pos()
	left := p.parseUnaryExpression()
	if left == nil {
		return nil
	}

	for p.err == nil {
		prec, ok := precedences[p.current.Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.current
		p.nextToken()

		if opTok.Type == lexer.TokenAssign {
			// Right associative: a = b = c is a = (b = c).
			value := p.parseExpression(prec)
			if value == nil {
				return nil
			}
			left = &ast.AssignExpr{Span: p.spanFrom(start), Target: left, Value: value}
			continue
		}

		right := p.parseExpression(prec + 1)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Span: p.spanFrom(start), Op: opTok.Literal, X: left, Y: right}
	}

	if p.err != nil {
		return nil
	}
	return left
}

// parseUnaryExpression parses prefix operators. Their operand is another
// unary expression, so postfix operators bind tighter: -f(x) is -(f(x)).
func (p *Parser) parseUnaryExpression() ast.Expr {
	switch tok := p.current; tok.Type {
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenBitNot:
		p.nextToken()
		operand := p.parseUnaryExpression()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Span: p.spanFrom(tok.Pos()), Op: tok.Literal, X: operand}
	}

	primary := p.parsePrimaryExpression()
	if primary == nil {
		return nil
	}
	return p.parsePostfixExpression(primary)
}

// parsePostfixExpression applies any chain of calls and slices to x.
func (p *Parser) parsePostfixExpression(x ast.Expr) ast.Expr {
	start := x.GetSpan().Start
	for p.err == nil {
		switch p.current.Type {
		case lexer.TokenLParen:
			args := p.parseCallArguments()
			if p.err != nil {
				return nil
			}
			x = &ast.CallExpr{Span: p.spanFrom(start), Fun: x, Args: args}
		case lexer.TokenLBracket:
			ranges := p.parseSliceRanges()
			if p.err != nil {
				return nil
			}
			x = &ast.SliceExpr{Span: p.spanFrom(start), X: x, Ranges: ranges}
		default:
			return x
		}
	}
	return nil
}

// parsePrimaryExpression parses identifiers, literals and parenthesized
// expressions.
func (p *Parser) parsePrimaryExpression() ast.Expr {
	tok := p.current
	switch tok.Type {
	case lexer.TokenIdentifier:
		p.nextToken()
		return &ast.Ident{Span: tok.Span, Name: tok.Literal}
	case lexer.TokenLParen:
		p.nextToken()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(lexer.TokenRParen, "to close parenthesized expression"); !ok {
			return nil
		}
		return &ast.ParenExpr{Span: p.spanFrom(tok.Pos()), X: inner}
	}

	if kind, ok := literalKinds[tok.Type]; ok {
		p.nextToken()
		return &ast.Literal{Span: tok.Span, Kind: kind, Raw: tok.Literal}
	}

	p.errorAt(tok, errors.CodeExpectedExpr, "expected expression, got %s", describe(tok))
	return nil
}

// parseCallArguments parses `( [expr {, expr}] )`.
func (p *Parser) parseCallArguments() []ast.Expr {
	p.nextToken() // (
	args := []ast.Expr{}
	if p.currentTokenIs(lexer.TokenRParen) {
		p.nextToken()
		return args
	}
	for p.err == nil {
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if _, ok := p.expect(lexer.TokenRParen, "to close argument list"); !ok {
		return nil
	}
	return args
}

// parseSliceRanges parses `[ [range {, range}] ]`.
func (p *Parser) parseSliceRanges() []*ast.Range {
	p.nextToken() // [
	ranges := []*ast.Range{}
	if p.currentTokenIs(lexer.TokenRBracket) {
		p.nextToken()
		return ranges
	}
	for p.err == nil {
		r := p.parseRange()
		if r == nil {
			return nil
		}
		ranges = append(ranges, r)
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if _, ok := p.expect(lexer.TokenRBracket, "to close slice"); !ok {
		return nil
	}
	return ranges
}

// parseRange parses `expr` or `expr .. expr`.
func (p *Parser) parseRange() *ast.Range {
	start := p.current.Pos()
	from := p.parseExpression(LOWEST)
	if from == nil {
		return nil
	}
	r := &ast.Range{Start: from}
	if p.currentTokenIs(lexer.TokenDotDot) {
		p.nextToken()
		to := p.parseExpression(LOWEST)
		if to == nil {
			return nil
		}
		r.End = to
	}
	r.Span = position.SpanBetween(start, p.prevEnd)
	return r
}
