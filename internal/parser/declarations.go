package parser

import (
	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/lexer"
)

// parseFuncDef parses `def signature statements end`.
func (p *Parser) parseFuncDef() *ast.FuncDef {
	start := p.current.Pos()
	if _, ok := p.expect(lexer.TokenDef, ""); !ok {
		return nil
	}

	sig := p.parseSignature()
	if sig == nil {
		return nil
	}
	body := p.parseStatementList(lexer.TokenEnd)
	if p.err != nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokenEnd, "to close function "+sig.Name.Name); !ok {
		return nil
	}
	return &ast.FuncDef{Span: p.spanFrom(start), Signature: sig, Body: body}
}

// parseSignature parses `name ( [arg {, arg}] ) [of type]`.
func (p *Parser) parseSignature() *ast.FuncSignature {
	start := p.current.Pos()
	nameTok, ok := p.expect(lexer.TokenIdentifier, "as function name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokenLParen, "after function name"); !ok {
		return nil
	}

	args := []*ast.Arg{}
	if !p.currentTokenIs(lexer.TokenRParen) {
		for p.err == nil {
			arg := p.parseArg()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.currentTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
	}
	if _, ok := p.expect(lexer.TokenRParen, "to close parameter list"); !ok {
		return nil
	}

	sig := &ast.FuncSignature{
		Name: &ast.Ident{Span: nameTok.Span, Name: nameTok.Literal},
		Args: args,
	}
	if p.currentTokenIs(lexer.TokenOf) {
		p.nextToken()
		if sig.Result = p.parseType(); sig.Result == nil {
			return nil
		}
	}
	sig.Span = p.spanFrom(start)
	return sig
}

// parseArg parses `name [of type]`.
func (p *Parser) parseArg() *ast.Arg {
	nameTok, ok := p.expect(lexer.TokenIdentifier, "as parameter name")
	if !ok {
		return nil
	}
	arg := &ast.Arg{Name: &ast.Ident{Span: nameTok.Span, Name: nameTok.Literal}}
	if p.currentTokenIs(lexer.TokenOf) {
		p.nextToken()
		if arg.Type = p.parseType(); arg.Type == nil {
			return nil
		}
	}
	arg.Span = p.spanFrom(nameTok.Pos())
	return arg
}
