package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// encoder converts nodes into generic JSON values. Every object carries
// a "node" discriminator.
type encoder struct {
	withSpans bool
}

func (e *encoder) encode(n Node) interface{} {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return nil
	}
	obj := n.Accept(e).(map[string]interface{})
	if e.withSpans {
		span := n.GetSpan()
		obj["span"] = map[string]interface{}{
			"start": []int{span.Start.Line, span.Start.Column, span.Start.Offset},
			"end":   []int{span.End.Line, span.End.Column, span.End.Offset},
		}
	}
	return obj
}

func (e *encoder) object(kind string, kv ...interface{}) map[string]interface{} {
	obj := map[string]interface{}{"node": kind}
	for i := 0; i+1 < len(kv); i += 2 {
		obj[kv[i].(string)] = kv[i+1]
	}
	return obj
}

func (e *encoder) stmts(list []Stmt) []interface{} {
	out := make([]interface{}, len(list))
	for i, s := range list {
		out[i] = e.encode(s)
	}
	return out
}

func (e *encoder) exprs(list []Expr) []interface{} {
	out := make([]interface{}, len(list))
	for i, x := range list {
		out[i] = e.encode(x)
	}
	return out
}

func (e *encoder) VisitProgram(n *Program) interface{} {
	funcs := make([]interface{}, len(n.Funcs))
	for i, f := range n.Funcs {
		funcs[i] = e.encode(f)
	}
	return e.object("Program", "funcs", funcs)
}

func (e *encoder) VisitFuncDef(n *FuncDef) interface{} {
	return e.object("FuncDef", "signature", e.encode(n.Signature), "body", e.stmts(n.Body))
}

func (e *encoder) VisitFuncSignature(n *FuncSignature) interface{} {
	args := make([]interface{}, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.encode(a)
	}
	return e.object("FuncSignature", "name", n.Name.Name, "args", args, "result", e.encode(n.Result))
}

func (e *encoder) VisitArg(n *Arg) interface{} {
	return e.object("Arg", "name", n.Name.Name, "type", e.encode(n.Type))
}

func (e *encoder) VisitBuiltinType(n *BuiltinType) interface{} {
	return e.object("Builtin", "name", n.Name)
}

func (e *encoder) VisitCustomType(n *CustomType) interface{} {
	return e.object("Custom", "name", n.Name)
}

func (e *encoder) VisitArrayType(n *ArrayType) interface{} {
	return e.object("Array", "size", n.Size, "element", e.encode(n.Elem))
}

func (e *encoder) VisitIfStmt(n *IfStmt) interface{} {
	return e.object("If", "condition", e.encode(n.Cond), "then", e.encode(n.Then), "else", e.encode(n.Else))
}

func (e *encoder) VisitLoopStmt(n *LoopStmt) interface{} {
	return e.object("Loop", "kind", n.Kind.String(), "condition", e.encode(n.Cond), "body", e.stmts(n.Body))
}

func (e *encoder) VisitRepeatStmt(n *RepeatStmt) interface{} {
	return e.object("Repeat", "body", e.encode(n.Body), "kind", n.Kind.String(), "condition", e.encode(n.Cond))
}

func (e *encoder) VisitBreakStmt(n *BreakStmt) interface{} {
	return e.object("Break")
}

func (e *encoder) VisitExprStmt(n *ExprStmt) interface{} {
	return e.object("ExprStmt", "expr", e.encode(n.X))
}

func (e *encoder) VisitBlockStmt(n *BlockStmt) interface{} {
	items := make([]interface{}, len(n.Items))
	for i, item := range n.Items {
		items[i] = e.encode(item)
	}
	return e.object("Block", "braces", n.Braces, "items", items)
}

func (e *encoder) VisitAssignExpr(n *AssignExpr) interface{} {
	return e.object("Assign", "target", e.encode(n.Target), "value", e.encode(n.Value))
}

func (e *encoder) VisitBinaryExpr(n *BinaryExpr) interface{} {
	return e.object("Binary", "op", n.Op, "left", e.encode(n.X), "right", e.encode(n.Y))
}

func (e *encoder) VisitUnaryExpr(n *UnaryExpr) interface{} {
	return e.object("Unary", "op", n.Op, "operand", e.encode(n.X))
}

func (e *encoder) VisitCallExpr(n *CallExpr) interface{} {
	return e.object("Call", "callee", e.encode(n.Fun), "args", e.exprs(n.Args))
}

func (e *encoder) VisitSliceExpr(n *SliceExpr) interface{} {
	ranges := make([]interface{}, len(n.Ranges))
	for i, r := range n.Ranges {
		ranges[i] = e.encode(r)
	}
	return e.object("Slice", "target", e.encode(n.X), "ranges", ranges)
}

func (e *encoder) VisitRange(n *Range) interface{} {
	return e.object("Range", "start", e.encode(n.Start), "end", e.encode(n.End))
}

func (e *encoder) VisitParenExpr(n *ParenExpr) interface{} {
	return e.object("Paren", "expr", e.encode(n.X))
}

func (e *encoder) VisitIdent(n *Ident) interface{} {
	return e.object("Identifier", "name", n.Name)
}

func (e *encoder) VisitLiteral(n *Literal) interface{} {
	return e.object("Literal", "kind", n.Kind.String(), "value", n.Raw)
}

// MarshalJSON encodes the tree rooted at node as indented JSON. Spans are
// included when withSpans is set.
func MarshalJSON(node Node, withSpans bool) ([]byte, error) {
	enc := &encoder{withSpans: withSpans}
	return json.MarshalIndent(enc.encode(node), "", "  ")
}

// Equal reports whether a and b are structurally identical, ignoring
// source positions.
func Equal(a, b Node) bool {
	enc := &encoder{}
	return reflect.DeepEqual(enc.encode(a), enc.encode(b))
}

// Dump writes an indented S-expression rendering of the tree rooted at
// node, one node per line.
func Dump(w io.Writer, node Node) error {
	var b strings.Builder
	dump(&b, node, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func dump(b *strings.Builder, node Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("(")
	b.WriteString(label(node))

	children := Children(node)
	switch node.(type) {
	case *FuncSignature, *Arg:
		// names are part of the label
		children = children[1:]
	}
	if len(children) == 0 {
		b.WriteString(")\n")
		return
	}
	b.WriteString("\n")
	for _, child := range children {
		dump(b, child, depth+1)
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(")\n")
}

func label(node Node) string {
	switch n := node.(type) {
	case *Program:
		return "Program"
	case *FuncDef:
		return "FuncDef"
	case *FuncSignature:
		return "Signature " + n.Name.Name
	case *Arg:
		return "Arg " + n.Name.Name
	case *BuiltinType:
		return "Builtin " + n.Name
	case *CustomType:
		return "Custom " + n.Name
	case *ArrayType:
		return fmt.Sprintf("Array %d", n.Size)
	case *IfStmt:
		if n.Else != nil {
			return "If/Else"
		}
		return "If"
	case *LoopStmt:
		return "Loop " + n.Kind.String()
	case *RepeatStmt:
		return "Repeat " + n.Kind.String()
	case *BreakStmt:
		return "Break"
	case *ExprStmt:
		return "ExprStmt"
	case *BlockStmt:
		return "Block"
	case *AssignExpr:
		return "Assign"
	case *BinaryExpr:
		return "Binary " + n.Op
	case *UnaryExpr:
		return "Unary " + n.Op
	case *CallExpr:
		return "Call"
	case *SliceExpr:
		return "Slice"
	case *Range:
		if n.End != nil {
			return "Range span"
		}
		return "Range index"
	case *ParenExpr:
		return "Paren"
	case *Ident:
		return "Identifier " + n.Name
	case *Literal:
		return n.Kind.String() + " " + n.Raw
	}
	return fmt.Sprintf("%T", node)
}
