package format

import (
	"strings"

	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/parser"
)

// printer accumulates output lines. Each line carries its indentation, and
// the last line stays open so a repeat guard can be appended to it.
type printer struct {
	unit   string
	indent int
	lines  []string
}

func newPrinter(opts Options) *printer {
	return &printer{unit: opts.indentUnit()}
}

func (p *printer) String() string {
	if len(p.lines) == 0 {
		return ""
	}
	return strings.Join(p.lines, "\n") + "\n"
}

func (p *printer) line(s string) {
	p.lines = append(p.lines, strings.Repeat(p.unit, p.indent)+s)
}

func (p *printer) blank() {
	p.lines = append(p.lines, "")
}

func (p *printer) appendToLast(s string) {
	p.lines[len(p.lines)-1] += s
}

func (p *printer) funcDef(fn *ast.FuncDef) {
	p.line("def " + fn.Signature.String())
	p.indent++
	for _, s := range fn.Body {
		p.stmt(s)
	}
	p.indent--
	p.line("end")
}

// loopBody prints the statements after a loop condition. A first
// statement whose text starts with `-` or `(` would extend the condition,
// so it is wrapped in a block.
func (p *printer) loopBody(list []ast.Stmt) {
	for i, s := range list {
		if i == 0 {
			mark := len(p.lines)
			p.stmt(s)
			first := strings.TrimLeft(p.lines[mark], " \t")
			if strings.HasPrefix(first, "-") || strings.HasPrefix(first, "(") {
				p.lines = p.lines[:mark]
				p.stmt(wrap(s))
			}
			continue
		}
		p.stmt(s)
	}
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.IfStmt:
		p.ifStmt(s)
	case *ast.LoopStmt:
		p.line(s.Kind.String() + " " + expr(s.Cond))
		p.indent++
		p.loopBody(s.Body)
		p.indent--
		p.line("end")
	case *ast.RepeatStmt:
		body := s.Body
		if _, ok := body.(*ast.IfStmt); ok {
			// The guard would attach to the innermost branch.
			body = wrap(body)
		}
		p.stmt(body)
		p.appendToLast(" " + s.Kind.String() + " " + expr(s.Cond) + ";")
	case *ast.BreakStmt:
		p.line("break;")
	case *ast.ExprStmt:
		p.line(expr(s.X) + ";")
	case *ast.BlockStmt:
		open, closing := "begin", "end"
		if s.Braces {
			open, closing = "{", "}"
		}
		p.line(open)
		p.indent++
		for _, item := range s.Items {
			switch item := item.(type) {
			case *ast.FuncDef:
				p.funcDef(item)
			case ast.Stmt:
				p.stmt(item)
			}
		}
		p.indent--
		p.line(closing)
	}
}

func (p *printer) ifStmt(s *ast.IfStmt) {
	p.line("if " + expr(s.Cond) + " then")
	then := s.Then
	if s.Else != nil && endsWithOpenIf(then) {
		then = wrap(then)
	}
	p.indent++
	p.stmt(then)
	p.indent--
	if s.Else != nil {
		p.line("else")
		p.indent++
		p.stmt(s.Else)
		p.indent--
	}
}

// endsWithOpenIf reports whether s ends in an if without else, which
// would capture a following else.
func endsWithOpenIf(s ast.Stmt) bool {
	ifStmt, ok := s.(*ast.IfStmt)
	if !ok {
		return false
	}
	if ifStmt.Else == nil {
		return true
	}
	return endsWithOpenIf(ifStmt.Else)
}

func wrap(s ast.Stmt) ast.Stmt {
	return &ast.BlockStmt{Span: s.GetSpan(), Items: []ast.BlockItem{s}}
}

// expr prints x with the fewest parentheses that preserve its shape.
// ParenExpr nodes are always kept.
func expr(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.AssignExpr:
		return operand(x.Target, parser.ASSIGN+1) + " = " + operand(x.Value, parser.ASSIGN)
	case *ast.BinaryExpr:
		prec := precedenceOf(x)
		return operand(x.X, prec) + " " + x.Op + " " + operand(x.Y, prec+1)
	case *ast.UnaryExpr:
		return x.Op + operand(x.X, parser.PREFIX)
	case *ast.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = expr(a)
		}
		return operand(x.Fun, parser.POSTFIX) + "(" + strings.Join(args, ", ") + ")"
	case *ast.SliceExpr:
		ranges := make([]string, len(x.Ranges))
		for i, r := range x.Ranges {
			ranges[i] = expr(r.Start)
			if r.End != nil {
				ranges[i] += ".." + expr(r.End)
			}
		}
		return operand(x.X, parser.POSTFIX) + "[" + strings.Join(ranges, ", ") + "]"
	case *ast.ParenExpr:
		return "(" + expr(x.X) + ")"
	}
	return x.String()
}

func operand(x ast.Expr, min parser.Precedence) string {
	if precedenceOf(x) < min {
		return "(" + expr(x) + ")"
	}
	return expr(x)
}

// precedenceOf returns the binding strength of the operator at the root
// of x. Operands and parenthesized expressions bind tightest.
func precedenceOf(x ast.Expr) parser.Precedence {
	switch x := x.(type) {
	case *ast.AssignExpr:
		return parser.ASSIGN
	case *ast.BinaryExpr:
		if prec, ok := parser.BinaryPrecedence(x.Op); ok {
			return prec
		}
		return parser.LOWEST
	case *ast.UnaryExpr:
		return parser.PREFIX
	case *ast.CallExpr, *ast.SliceExpr:
		return parser.POSTFIX
	}
	return parser.POSTFIX + 1
}
