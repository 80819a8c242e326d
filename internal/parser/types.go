package parser

import (
	"strconv"

	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/lexer"
)

// parseType parses a type reference. Array suffixes nest left to right:
// `int array[3] array[4]` is an array of 4 arrays of 3 ints.
func (p *Parser) parseType() ast.TypeRef {
	start := p.current.Pos()

	var t ast.TypeRef
	switch tok := p.current; {
	case tok.Type.IsBuiltinType():
		p.nextToken()
		t = &ast.BuiltinType{Span: tok.Span, Name: tok.Literal}
	case tok.Type == lexer.TokenIdentifier:
		p.nextToken()
		t = &ast.CustomType{Span: tok.Span, Name: tok.Literal}
	default:
		p.errorAt(tok, errors.CodeExpectedType, "expected type, got %s", describe(tok))
		return nil
	}

	for p.err == nil && p.currentTokenIs(lexer.TokenArray) {
		p.nextToken()
		if _, ok := p.expect(lexer.TokenLBracket, "after 'array'"); !ok {
			return nil
		}
		sizeTok := p.current
		if sizeTok.Type != lexer.TokenDec {
			if sizeTok.Type == lexer.TokenEOF {
				p.errorAt(sizeTok, errors.CodeMissingToken, "expected array size, got %s", describe(sizeTok))
			} else {
				p.errorAt(sizeTok, errors.CodeInvalidArraySize,
					"array size must be a decimal literal, got %s", describe(sizeTok))
			}
			return nil
		}
		size, err := strconv.ParseUint(sizeTok.Literal, 10, 64)
		if err != nil {
			p.errorAt(sizeTok, errors.CodeInvalidArraySize, "array size %s out of range", sizeTok.Literal)
			return nil
		}
		p.nextToken()
		if _, ok := p.expect(lexer.TokenRBracket, "to close array size"); !ok {
			return nil
		}
		t = &ast.ArrayType{Span: p.spanFrom(start), Elem: t, Size: size, SizeLit: sizeTok.Literal}
	}

	if p.err != nil {
		return nil
	}
	return t
}
