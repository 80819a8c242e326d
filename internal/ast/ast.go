// Package ast defines the abstract syntax tree produced by the mylang
// parser.
//
// The tree is strictly owned: every node has exactly one parent and
// nodes are never shared or mutated after the parse that built them.
package ast

import (
	"strings"

	"github.com/mylang-lang/mylang/internal/position"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span for this node
	GetSpan() position.Span
	// String returns a compact, fully parenthesized rendering of the node
	String() string
	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}
}

// Expr represents all expression nodes
type Expr interface {
	Node
	exprNode()
}

// BlockItem is anything that may appear inside a block: a statement or
// a nested function definition.
type BlockItem interface {
	Node
	blockItemNode()
}

// Stmt represents all statement nodes
type Stmt interface {
	BlockItem
	stmtNode()
}

// TypeRef represents all type reference nodes
type TypeRef interface {
	Node
	typeRefNode()
}

// ====== Program and functions ======

// Program is the root of the AST: the function definitions of one
// compilation unit.
type Program struct {
	Span  position.Span
	Funcs []*FuncDef
}

func (p *Program) GetSpan() position.Span             { return p.Span }
func (p *Program) Accept(visitor Visitor) interface{} { return visitor.VisitProgram(p) }
func (p *Program) String() string {
	parts := make([]string, len(p.Funcs))
	for i, f := range p.Funcs {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

// FuncDef is `def` signature statement* `end`
type FuncDef struct {
	Span      position.Span
	Signature *FuncSignature
	Body      []Stmt
}

func (f *FuncDef) GetSpan() position.Span             { return f.Span }
func (f *FuncDef) Accept(visitor Visitor) interface{} { return visitor.VisitFuncDef(f) }
func (f *FuncDef) blockItemNode()                     {}
func (f *FuncDef) String() string {
	var b strings.Builder
	b.WriteString("def ")
	b.WriteString(f.Signature.String())
	for _, s := range f.Body {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	b.WriteString(" end")
	return b.String()
}

// FuncSignature is the name, arguments and optional result type of a
// function. Argument names are not checked for uniqueness.
type FuncSignature struct {
	Span   position.Span
	Name   *Ident
	Args   []*Arg
	Result TypeRef // nil when absent
}

func (s *FuncSignature) GetSpan() position.Span             { return s.Span }
func (s *FuncSignature) Accept(visitor Visitor) interface{} { return visitor.VisitFuncSignature(s) }
func (s *FuncSignature) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	out := s.Name.Name + "(" + strings.Join(args, ", ") + ")"
	if s.Result != nil {
		out += " of " + s.Result.String()
	}
	return out
}

// Arg is a function argument with an optional type
type Arg struct {
	Span position.Span
	Name *Ident
	Type TypeRef // nil when untyped
}

func (a *Arg) GetSpan() position.Span             { return a.Span }
func (a *Arg) Accept(visitor Visitor) interface{} { return visitor.VisitArg(a) }
func (a *Arg) String() string {
	if a.Type == nil {
		return a.Name.Name
	}
	return a.Name.Name + " of " + a.Type.String()
}

// ====== Types ======

// BuiltinType is one of bool byte int uint long ulong char string
type BuiltinType struct {
	Span position.Span
	Name string
}

func (t *BuiltinType) GetSpan() position.Span             { return t.Span }
func (t *BuiltinType) String() string                     { return t.Name }
func (t *BuiltinType) Accept(visitor Visitor) interface{} { return visitor.VisitBuiltinType(t) }
func (t *BuiltinType) typeRefNode()                       {}

// CustomType is a user type name, unresolved at parse time
type CustomType struct {
	Span position.Span
	Name string
}

func (t *CustomType) GetSpan() position.Span             { return t.Span }
func (t *CustomType) String() string                     { return t.Name }
func (t *CustomType) Accept(visitor Visitor) interface{} { return visitor.VisitCustomType(t) }
func (t *CustomType) typeRefNode()                       {}

// ArrayType is a fixed-size array `Elem array[Size]`
type ArrayType struct {
	Span    position.Span
	Elem    TypeRef
	Size    uint64
	SizeLit string // decimal literal as written
}

func (t *ArrayType) GetSpan() position.Span             { return t.Span }
func (t *ArrayType) String() string                     { return t.Elem.String() + " array[" + t.SizeLit + "]" }
func (t *ArrayType) Accept(visitor Visitor) interface{} { return visitor.VisitArrayType(t) }
func (t *ArrayType) typeRefNode()                       {}

// ====== Statements ======

// LoopKind is the guard polarity of a loop.
type LoopKind int

const (
	// LoopWhile repeats while the condition is true
	LoopWhile LoopKind = iota
	// LoopUntil repeats while the condition is false
	LoopUntil
)

func (k LoopKind) String() string {
	if k == LoopUntil {
		return "until"
	}
	return "while"
}

// IfStmt is `if` Cond `then` Then (`else` Else)?
type IfStmt struct {
	Span position.Span
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (s *IfStmt) GetSpan() position.Span             { return s.Span }
func (s *IfStmt) Accept(visitor Visitor) interface{} { return visitor.VisitIfStmt(s) }
func (s *IfStmt) blockItemNode()                     {}
func (s *IfStmt) stmtNode()                          {}
func (s *IfStmt) String() string {
	out := "if " + s.Cond.String() + " then " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// LoopStmt is the pre-condition loop (`while`|`until`) Cond Body `end`
type LoopStmt struct {
	Span position.Span
	Kind LoopKind
	Cond Expr
	Body []Stmt
}

func (s *LoopStmt) GetSpan() position.Span             { return s.Span }
func (s *LoopStmt) Accept(visitor Visitor) interface{} { return visitor.VisitLoopStmt(s) }
func (s *LoopStmt) blockItemNode()                     {}
func (s *LoopStmt) stmtNode()                          {}
func (s *LoopStmt) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	b.WriteString(" ")
	b.WriteString(s.Cond.String())
	for _, st := range s.Body {
		b.WriteString(" ")
		b.WriteString(st.String())
	}
	b.WriteString(" end")
	return b.String()
}

// RepeatStmt is the post-condition loop Body (`while`|`until`) Cond `;`
type RepeatStmt struct {
	Span position.Span
	Body Stmt
	Kind LoopKind
	Cond Expr
}

func (s *RepeatStmt) GetSpan() position.Span             { return s.Span }
func (s *RepeatStmt) Accept(visitor Visitor) interface{} { return visitor.VisitRepeatStmt(s) }
func (s *RepeatStmt) blockItemNode()                     {}
func (s *RepeatStmt) stmtNode()                          {}
func (s *RepeatStmt) String() string {
	return s.Body.String() + " " + s.Kind.String() + " " + s.Cond.String() + ";"
}

// BreakStmt is `break` `;`
type BreakStmt struct {
	Span position.Span
}

func (s *BreakStmt) GetSpan() position.Span             { return s.Span }
func (s *BreakStmt) String() string                     { return "break;" }
func (s *BreakStmt) Accept(visitor Visitor) interface{} { return visitor.VisitBreakStmt(s) }
func (s *BreakStmt) blockItemNode()                     {}
func (s *BreakStmt) stmtNode()                          {}

// ExprStmt is an expression followed by `;`
type ExprStmt struct {
	Span position.Span
	X    Expr
}

func (s *ExprStmt) GetSpan() position.Span             { return s.Span }
func (s *ExprStmt) String() string                     { return s.X.String() + ";" }
func (s *ExprStmt) Accept(visitor Visitor) interface{} { return visitor.VisitExprStmt(s) }
func (s *ExprStmt) blockItemNode()                     {}
func (s *ExprStmt) stmtNode()                          {}

// BlockStmt is a delimited sequence of statements and nested function
// definitions. Braces records whether it was opened with `{` rather than
// `begin`.
type BlockStmt struct {
	Span   position.Span
	Braces bool
	Items  []BlockItem
}

func (s *BlockStmt) GetSpan() position.Span             { return s.Span }
func (s *BlockStmt) Accept(visitor Visitor) interface{} { return visitor.VisitBlockStmt(s) }
func (s *BlockStmt) blockItemNode()                     {}
func (s *BlockStmt) stmtNode()                          {}
func (s *BlockStmt) String() string {
	open, closing := "begin", "end"
	if s.Braces {
		open, closing = "{", "}"
	}
	var b strings.Builder
	b.WriteString(open)
	for _, item := range s.Items {
		b.WriteString(" ")
		b.WriteString(item.String())
	}
	b.WriteString(" ")
	b.WriteString(closing)
	return b.String()
}

// ====== Expressions ======

// AssignExpr is Target `=` Value (right associative, lowest precedence)
type AssignExpr struct {
	Span   position.Span
	Target Expr
	Value  Expr
}

func (e *AssignExpr) GetSpan() position.Span { return e.Span }
func (e *AssignExpr) String() string {
	return "(" + e.Target.String() + " = " + e.Value.String() + ")"
}
func (e *AssignExpr) Accept(visitor Visitor) interface{} { return visitor.VisitAssignExpr(e) }
func (e *AssignExpr) exprNode()                          {}

// BinaryExpr is X Op Y
type BinaryExpr struct {
	Span position.Span
	Op   string
	X    Expr
	Y    Expr
}

func (e *BinaryExpr) GetSpan() position.Span { return e.Span }
func (e *BinaryExpr) String() string {
	return "(" + e.X.String() + " " + e.Op + " " + e.Y.String() + ")"
}
func (e *BinaryExpr) Accept(visitor Visitor) interface{} { return visitor.VisitBinaryExpr(e) }
func (e *BinaryExpr) exprNode()                          {}

// UnaryExpr is a prefix Op applied to X
type UnaryExpr struct {
	Span position.Span
	Op   string
	X    Expr
}

func (e *UnaryExpr) GetSpan() position.Span             { return e.Span }
func (e *UnaryExpr) String() string                     { return "(" + e.Op + e.X.String() + ")" }
func (e *UnaryExpr) Accept(visitor Visitor) interface{} { return visitor.VisitUnaryExpr(e) }
func (e *UnaryExpr) exprNode()                          {}

// CallExpr is Fun `(` Args `)`
type CallExpr struct {
	Span position.Span
	Fun  Expr
	Args []Expr
}

func (e *CallExpr) GetSpan() position.Span { return e.Span }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}
func (e *CallExpr) Accept(visitor Visitor) interface{} { return visitor.VisitCallExpr(e) }
func (e *CallExpr) exprNode()                          {}

// SliceExpr is X `[` Ranges `]`
type SliceExpr struct {
	Span   position.Span
	X      Expr
	Ranges []*Range
}

func (e *SliceExpr) GetSpan() position.Span { return e.Span }
func (e *SliceExpr) String() string {
	ranges := make([]string, len(e.Ranges))
	for i, r := range e.Ranges {
		ranges[i] = r.String()
	}
	return e.X.String() + "[" + strings.Join(ranges, ", ") + "]"
}
func (e *SliceExpr) Accept(visitor Visitor) interface{} { return visitor.VisitSliceExpr(e) }
func (e *SliceExpr) exprNode()                          {}

// Range is a single index (End == nil) or a Start `..` End span. Whether
// End is inclusive is left to the consumer.
type Range struct {
	Span  position.Span
	Start Expr
	End   Expr
}

func (r *Range) GetSpan() position.Span             { return r.Span }
func (r *Range) Accept(visitor Visitor) interface{} { return visitor.VisitRange(r) }
func (r *Range) String() string {
	if r.End == nil {
		return r.Start.String()
	}
	return r.Start.String() + ".." + r.End.String()
}

// ParenExpr is a parenthesized expression
type ParenExpr struct {
	Span position.Span
	X    Expr
}

func (e *ParenExpr) GetSpan() position.Span             { return e.Span }
func (e *ParenExpr) String() string                     { return "(" + e.X.String() + ")" }
func (e *ParenExpr) Accept(visitor Visitor) interface{} { return visitor.VisitParenExpr(e) }
func (e *ParenExpr) exprNode()                          {}

// Ident is an identifier
type Ident struct {
	Span position.Span
	Name string
}

func (e *Ident) GetSpan() position.Span             { return e.Span }
func (e *Ident) String() string                     { return e.Name }
func (e *Ident) Accept(visitor Visitor) interface{} { return visitor.VisitIdent(e) }
func (e *Ident) exprNode()                          {}

// LiteralKind is the lexical class of a literal
type LiteralKind int

const (
	LiteralBool LiteralKind = iota
	LiteralStr
	LiteralChar
	LiteralHex
	LiteralBits
	LiteralDec
)

var literalKindNames = [...]string{
	LiteralBool: "Bool",
	LiteralStr:  "Str",
	LiteralChar: "Char",
	LiteralHex:  "Hex",
	LiteralBits: "Bits",
	LiteralDec:  "Dec",
}

func (k LiteralKind) String() string {
	if k >= 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "Unknown"
}

// Literal carries the raw source text of a literal; numeric width and
// signedness are decided later.
type Literal struct {
	Span position.Span
	Kind LiteralKind
	Raw  string
}

func (e *Literal) GetSpan() position.Span             { return e.Span }
func (e *Literal) String() string                     { return e.Raw }
func (e *Literal) Accept(visitor Visitor) interface{} { return visitor.VisitLiteral(e) }
func (e *Literal) exprNode()                          {}
