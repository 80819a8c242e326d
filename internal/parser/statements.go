package parser

import (
	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/lexer"
)

// parseStatementList parses statements until one of the terminators, or
// end of input, is reached at statement start. A pending loop header is
// always resolved first, even when a terminator follows it, since that
// terminator closes the loop.
func (p *Parser) parseStatementList(terminators ...lexer.TokenType) []ast.Stmt {
	list := []ast.Stmt{}
	for p.err == nil {
		if p.pending == nil && (p.currentTokenIs(lexer.TokenEOF) || p.currentTokenIsAny(terminators...)) {
			break
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		list = append(list, stmt)
	}
	return list
}

// parseBlockItems parses the contents of a block: statements and nested
// function definitions, up to `end`, `}` or end of input.
func (p *Parser) parseBlockItems() []ast.BlockItem {
	items := []ast.BlockItem{}
	for p.err == nil {
		if p.pending == nil {
			if p.currentTokenIsAny(lexer.TokenEOF, lexer.TokenEnd, lexer.TokenRBrace) {
				break
			}
			if p.currentTokenIs(lexer.TokenDef) {
				fn := p.parseFuncDef()
				if fn == nil {
					return nil
				}
				items = append(items, fn)
				continue
			}
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		items = append(items, stmt)
	}
	return items
}

// parseStatement parses one statement together with any repeat guards
// that follow it.
func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	if h := p.pending; h != nil {
		p.pending = nil
		stmt = p.finishLoop(h)
	} else {
		stmt = p.parseSimpleStatement()
	}
	if stmt == nil {
		return nil
	}
	return p.parseRepeatSuffix(stmt)
}

// parseSimpleStatement dispatches on the current token.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	switch p.current.Type {
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile, lexer.TokenUntil:
		return p.parseLoopStatement()
	case lexer.TokenBreak:
		return p.parseBreakStatement()
	case lexer.TokenBegin, lexer.TokenLBrace:
		return p.parseBlockStatement()
	}
	if canStartExpression(p.current.Type) {
		return p.parseExpressionStatement()
	}
	p.errorAt(p.current, errors.CodeExpectedStmt, "expected statement, got %s", describe(p.current))
	return nil
}

// parseRepeatSuffix handles `while`/`until` after a complete statement.
// With a trailing `;` the guard turns stmt into a post-condition loop,
// and the check repeats so guards can stack. Without it the guard opens
// a new pre-condition loop, which is left pending for the enclosing
// sequence.
func (p *Parser) parseRepeatSuffix(stmt ast.Stmt) ast.Stmt {
	for p.err == nil && p.pending == nil && p.currentTokenIsAny(lexer.TokenWhile, lexer.TokenUntil) {
		kwTok := p.current
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if cond == nil {
			return nil
		}
		if !p.currentTokenIs(lexer.TokenSemicolon) {
			p.pending = &loopHeader{start: kwTok.Pos(), kind: loopKind(kwTok.Type), cond: cond}
			return stmt
		}
		p.nextToken()
		stmt = &ast.RepeatStmt{
			Span: p.spanFrom(stmt.GetSpan().Start),
			Body: stmt,
			Kind: loopKind(kwTok.Type),
			Cond: cond,
		}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

// parseIfStatement parses `if cond then stmt [else stmt]`. An else binds
// to the nearest if.
func (p *Parser) parseIfStatement() ast.Stmt {
	start := p.current.Pos()
	p.nextToken() // if

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokenThen, "after if condition"); !ok {
		return nil
	}
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	stmt := &ast.IfStmt{Cond: cond, Then: then}
	// A pending loop header sits between the then branch and any else.
	if p.pending == nil && p.currentTokenIs(lexer.TokenElse) {
		p.nextToken()
		els := p.parseStatement()
		if els == nil {
			return nil
		}
		stmt.Else = els
	}
	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseLoopStatement parses a pre-condition loop in statement position.
func (p *Parser) parseLoopStatement() ast.Stmt {
	kwTok := p.current
	p.nextToken()

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if p.currentTokenIs(lexer.TokenSemicolon) {
		hint := ""
		if mayHaveAbsorbedBody(cond) {
			hint = "; a first body statement starting with '-' or '(' continues the condition, wrap it in begin ... end"
		}
		p.errorAt(p.current, errors.CodeUnexpectedToken,
			"unexpected ';' after %s condition: a repeat guard must follow a statement%s", kwTok.Literal, hint)
		return nil
	}
	return p.finishLoop(&loopHeader{start: kwTok.Pos(), kind: loopKind(kwTok.Type), cond: cond})
}

// mayHaveAbsorbedBody reports whether cond ends in a form that the loop's
// first body statement could have produced: a subtraction or a call.
func mayHaveAbsorbedBody(cond ast.Expr) bool {
	switch c := cond.(type) {
	case *ast.BinaryExpr:
		return c.Op == "-" || mayHaveAbsorbedBody(c.Y)
	case *ast.CallExpr:
		return true
	}
	return false
}

// finishLoop parses the body of a loop whose header has been read.
func (p *Parser) finishLoop(h *loopHeader) ast.Stmt {
	body := p.parseStatementList(lexer.TokenEnd)
	if p.err != nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokenEnd, "to close loop"); !ok {
		return nil
	}
	return &ast.LoopStmt{Span: p.spanFrom(h.start), Kind: h.kind, Cond: h.cond, Body: body}
}

func (p *Parser) parseBreakStatement() ast.Stmt {
	start := p.current.Pos()
	p.nextToken()
	if _, ok := p.expect(lexer.TokenSemicolon, "after 'break'"); !ok {
		return nil
	}
	return &ast.BreakStmt{Span: p.spanFrom(start)}
}

// parseBlockStatement parses `begin ... end` or `{ ... }`. Either closer
// ends either opener.
func (p *Parser) parseBlockStatement() ast.Stmt {
	open := p.current
	p.nextToken()

	items := p.parseBlockItems()
	if p.err != nil {
		return nil
	}
	if !p.currentTokenIsAny(lexer.TokenEnd, lexer.TokenRBrace) {
		p.errorAt(p.current, errors.CodeMissingToken,
			"expected 'end' or '}' to close block opened at %s, got %s", open.Pos(), describe(p.current))
		return nil
	}
	p.nextToken()
	if p.err != nil {
		return nil
	}
	return &ast.BlockStmt{
		Span:   p.spanFrom(open.Pos()),
		Braces: open.Type == lexer.TokenLBrace,
		Items:  items,
	}
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.current.Pos()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokenSemicolon, "after expression"); !ok {
		return nil
	}
	return &ast.ExprStmt{Span: p.spanFrom(start), X: x}
}

func loopKind(tt lexer.TokenType) ast.LoopKind {
	if tt == lexer.TokenUntil {
		return ast.LoopUntil
	}
	return ast.LoopWhile
}
