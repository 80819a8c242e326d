// Package format prints mylang syntax trees back to source text in a
// canonical layout.
package format

import (
	"strings"

	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/parser"
)

// Options controls formatting style.
type Options struct {
	// IndentSize is the number of spaces per nesting level.
	IndentSize int
	// PreferTabs indents with one tab per level instead of spaces.
	PreferTabs bool
	// PreserveNewlineStyle: when true, CRLF in input keeps CRLF in output; else LF.
	PreserveNewlineStyle bool
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{IndentSize: 4, PreserveNewlineStyle: true}
}

func (o Options) indentUnit() string {
	if o.PreferTabs {
		return "\t"
	}
	if o.IndentSize <= 0 {
		return strings.Repeat(" ", DefaultOptions().IndentSize)
	}
	return strings.Repeat(" ", o.IndentSize)
}

// Program prints prog with one statement per line. Functions are separated
// by a blank line. Parsing the output yields a tree equal to prog.
func Program(prog *ast.Program, opts Options) string {
	p := newPrinter(opts)
	for i, fn := range prog.Funcs {
		if i > 0 {
			p.blank()
		}
		p.funcDef(fn)
	}
	return p.String()
}

// Node prints a single statement, function or expression.
func Node(node ast.Node, opts Options) string {
	p := newPrinter(opts)
	switch n := node.(type) {
	case *ast.Program:
		return Program(n, opts)
	case *ast.FuncDef:
		p.funcDef(n)
	case ast.Stmt:
		p.stmt(n)
	case ast.Expr:
		return expr(n)
	case ast.TypeRef:
		return n.String()
	default:
		return node.String()
	}
	return p.String()
}

// Source parses src and prints it in canonical layout.
func Source(filename, src string, opts Options) (string, error) {
	prog, err := parser.ParseFile(filename, src)
	if err != nil {
		return "", err
	}
	out := Program(prog, opts)
	if opts.PreserveNewlineStyle && strings.Contains(src, "\r\n") {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}
