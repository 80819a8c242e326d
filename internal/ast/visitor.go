package ast

// Visitor lets analysis passes dispatch on node type without type
// switches. Each Accept calls the matching Visit method.
type Visitor interface {
	VisitProgram(node *Program) interface{}
	VisitFuncDef(node *FuncDef) interface{}
	VisitFuncSignature(node *FuncSignature) interface{}
	VisitArg(node *Arg) interface{}

	VisitBuiltinType(node *BuiltinType) interface{}
	VisitCustomType(node *CustomType) interface{}
	VisitArrayType(node *ArrayType) interface{}

	VisitIfStmt(node *IfStmt) interface{}
	VisitLoopStmt(node *LoopStmt) interface{}
	VisitRepeatStmt(node *RepeatStmt) interface{}
	VisitBreakStmt(node *BreakStmt) interface{}
	VisitExprStmt(node *ExprStmt) interface{}
	VisitBlockStmt(node *BlockStmt) interface{}

	VisitAssignExpr(node *AssignExpr) interface{}
	VisitBinaryExpr(node *BinaryExpr) interface{}
	VisitUnaryExpr(node *UnaryExpr) interface{}
	VisitCallExpr(node *CallExpr) interface{}
	VisitSliceExpr(node *SliceExpr) interface{}
	VisitRange(node *Range) interface{}
	VisitParenExpr(node *ParenExpr) interface{}
	VisitIdent(node *Ident) interface{}
	VisitLiteral(node *Literal) interface{}
}

// BaseVisitor returns nil for every node. Embed it to implement only the
// methods a pass needs.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitProgram(node *Program) interface{}             { return nil }
func (v *BaseVisitor) VisitFuncDef(node *FuncDef) interface{}             { return nil }
func (v *BaseVisitor) VisitFuncSignature(node *FuncSignature) interface{} { return nil }
func (v *BaseVisitor) VisitArg(node *Arg) interface{}                     { return nil }
func (v *BaseVisitor) VisitBuiltinType(node *BuiltinType) interface{}     { return nil }
func (v *BaseVisitor) VisitCustomType(node *CustomType) interface{}       { return nil }
func (v *BaseVisitor) VisitArrayType(node *ArrayType) interface{}         { return nil }
func (v *BaseVisitor) VisitIfStmt(node *IfStmt) interface{}               { return nil }
func (v *BaseVisitor) VisitLoopStmt(node *LoopStmt) interface{}           { return nil }
func (v *BaseVisitor) VisitRepeatStmt(node *RepeatStmt) interface{}       { return nil }
func (v *BaseVisitor) VisitBreakStmt(node *BreakStmt) interface{}         { return nil }
func (v *BaseVisitor) VisitExprStmt(node *ExprStmt) interface{}           { return nil }
func (v *BaseVisitor) VisitBlockStmt(node *BlockStmt) interface{}         { return nil }
func (v *BaseVisitor) VisitAssignExpr(node *AssignExpr) interface{}       { return nil }
func (v *BaseVisitor) VisitBinaryExpr(node *BinaryExpr) interface{}       { return nil }
func (v *BaseVisitor) VisitUnaryExpr(node *UnaryExpr) interface{}         { return nil }
func (v *BaseVisitor) VisitCallExpr(node *CallExpr) interface{}           { return nil }
func (v *BaseVisitor) VisitSliceExpr(node *SliceExpr) interface{}         { return nil }
func (v *BaseVisitor) VisitRange(node *Range) interface{}                 { return nil }
func (v *BaseVisitor) VisitParenExpr(node *ParenExpr) interface{}         { return nil }
func (v *BaseVisitor) VisitIdent(node *Ident) interface{}                 { return nil }
func (v *BaseVisitor) VisitLiteral(node *Literal) interface{}             { return nil }

// Children returns the direct children of node in source order. Absent
// optional children are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *Program:
		for _, f := range n.Funcs {
			out = append(out, f)
		}
	case *FuncDef:
		add(n.Signature)
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *FuncSignature:
		add(n.Name)
		for _, a := range n.Args {
			out = append(out, a)
		}
		add(n.Result)
	case *Arg:
		add(n.Name)
		add(n.Type)
	case *ArrayType:
		add(n.Elem)
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *LoopStmt:
		add(n.Cond)
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *RepeatStmt:
		add(n.Body)
		add(n.Cond)
	case *ExprStmt:
		add(n.X)
	case *BlockStmt:
		for _, item := range n.Items {
			out = append(out, item)
		}
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *BinaryExpr:
		add(n.X)
		add(n.Y)
	case *UnaryExpr:
		add(n.X)
	case *CallExpr:
		add(n.Fun)
		for _, a := range n.Args {
			out = append(out, a)
		}
	case *SliceExpr:
		add(n.X)
		for _, r := range n.Ranges {
			out = append(out, r)
		}
	case *Range:
		add(n.Start)
		add(n.End)
	case *ParenExpr:
		add(n.X)
	}
	return out
}

// Inspect traverses the tree rooted at node in depth-first pre-order,
// calling f for each node. If f returns false the children of that node
// are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}
