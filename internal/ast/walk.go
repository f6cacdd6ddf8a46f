package ast

// Inspect обходит дерево в глубину (pre-order). Если f возвращает false,
// дети узла не посещаются.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *File:
		return stmtNodes(n.Stmts)
	case *IdentExpr, *LiteralExpr, *BreakStmt, *ContinueStmt:
		return nil
	case *UnaryExpr:
		return []Node{n.Operand}
	case *BinaryExpr:
		return []Node{n.Left, n.Right}
	case *AssignExpr:
		return []Node{n.Target, n.Value}
	case *GroupExpr:
		return []Node{n.Inner}
	case *CallExpr:
		return append([]Node{n.Callee}, exprNodes(n.Args)...)
	case *IndexExpr:
		return []Node{n.Target, n.Index}
	case *MemberExpr:
		return []Node{n.Target}
	case *ListExpr:
		return exprNodes(n.Elems)
	case *FnExpr:
		return []Node{n.Body}
	case *LetStmt:
		return []Node{n.Value}
	case *FnStmt:
		return []Node{n.Body}
	case *IfStmt:
		if n.Else != nil {
			return []Node{n.Cond, n.Then, n.Else}
		}
		return []Node{n.Cond, n.Then}
	case *WhileStmt:
		return []Node{n.Cond, n.Body}
	case *ForStmt:
		return []Node{n.Iter, n.Body}
	case *ReturnStmt:
		if n.Value != nil {
			return []Node{n.Value}
		}
		return nil
	case *BlockStmt:
		return stmtNodes(n.Stmts)
	case *ExprStmt:
		return []Node{n.X}
	default:
		return nil
	}
}

func stmtNodes(stmts []Stmt) []Node {
	out := make([]Node, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s)
	}
	return out
}

func exprNodes(exprs []Expr) []Node {
	out := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}

// NodeName returns a short type name for debug output and JSON.
func NodeName(n Node) string {
	switch n.(type) {
	case *File:
		return "File"
	case *IdentExpr:
		return "Ident"
	case *LiteralExpr:
		return "Literal"
	case *UnaryExpr:
		return "Unary"
	case *BinaryExpr:
		return "Binary"
	case *AssignExpr:
		return "Assign"
	case *GroupExpr:
		return "Group"
	case *CallExpr:
		return "Call"
	case *IndexExpr:
		return "Index"
	case *MemberExpr:
		return "Member"
	case *ListExpr:
		return "List"
	case *FnExpr:
		return "FnLit"
	case *LetStmt:
		return "Let"
	case *FnStmt:
		return "Fn"
	case *IfStmt:
		return "If"
	case *WhileStmt:
		return "While"
	case *ForStmt:
		return "For"
	case *ReturnStmt:
		return "Return"
	case *BreakStmt:
		return "Break"
	case *ContinueStmt:
		return "Continue"
	case *BlockStmt:
		return "Block"
	case *ExprStmt:
		return "ExprStmt"
	default:
		return "Unknown"
	}
}
