package ast

import (
	"quill/internal/source"
	"quill/internal/token"
)

func exprBase(sp source.Span) ExprBase { return ExprBase{NodeBase{Span: sp}} }
func stmtBase(sp source.Span) StmtBase { return StmtBase{NodeBase{Span: sp}} }

func NewFile(sp source.Span, stmts []Stmt) *File {
	return &File{NodeBase: NodeBase{Span: sp}, Stmts: stmts}
}

func NewIdentExpr(sp source.Span, name string) *IdentExpr {
	return &IdentExpr{ExprBase: exprBase(sp), Name: name}
}

func NewLiteralExpr(sp source.Span, v token.Literal) *LiteralExpr {
	return &LiteralExpr{ExprBase: exprBase(sp), Value: v}
}

func NewUnaryExpr(sp source.Span, op token.Kind, operand Expr) *UnaryExpr {
	return &UnaryExpr{ExprBase: exprBase(sp), Op: op, Operand: operand}
}

func NewBinaryExpr(op token.Kind, left, right Expr) *BinaryExpr {
	return &BinaryExpr{ExprBase: exprBase(left.GetSpan().Cover(right.GetSpan())), Op: op, Left: left, Right: right}
}

func NewAssignExpr(op token.Kind, target, value Expr) *AssignExpr {
	return &AssignExpr{ExprBase: exprBase(target.GetSpan().Cover(value.GetSpan())), Op: op, Target: target, Value: value}
}

func NewGroupExpr(sp source.Span, inner Expr) *GroupExpr {
	return &GroupExpr{ExprBase: exprBase(sp), Inner: inner}
}

func NewCallExpr(sp source.Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{ExprBase: exprBase(sp), Callee: callee, Args: args}
}

func NewIndexExpr(sp source.Span, target, index Expr) *IndexExpr {
	return &IndexExpr{ExprBase: exprBase(sp), Target: target, Index: index}
}

func NewMemberExpr(sp source.Span, target Expr, name Ident) *MemberExpr {
	return &MemberExpr{ExprBase: exprBase(sp), Target: target, Name: name}
}

func NewListExpr(sp source.Span, elems []Expr) *ListExpr {
	return &ListExpr{ExprBase: exprBase(sp), Elems: elems}
}

func NewFnExpr(sp source.Span, params []Ident, body *BlockStmt) *FnExpr {
	return &FnExpr{ExprBase: exprBase(sp), Params: params, Body: body}
}

func NewLetStmt(sp source.Span, name Ident, value Expr) *LetStmt {
	return &LetStmt{StmtBase: stmtBase(sp), Name: name, Value: value}
}

func NewFnStmt(sp source.Span, name Ident, params []Ident, body *BlockStmt) *FnStmt {
	return &FnStmt{StmtBase: stmtBase(sp), Name: name, Params: params, Body: body}
}

func NewIfStmt(sp source.Span, cond Expr, then *BlockStmt, els Stmt) *IfStmt {
	return &IfStmt{StmtBase: stmtBase(sp), Cond: cond, Then: then, Else: els}
}

func NewWhileStmt(sp source.Span, cond Expr, body *BlockStmt) *WhileStmt {
	return &WhileStmt{StmtBase: stmtBase(sp), Cond: cond, Body: body}
}

func NewForStmt(sp source.Span, v Ident, iter Expr, body *BlockStmt) *ForStmt {
	return &ForStmt{StmtBase: stmtBase(sp), Var: v, Iter: iter, Body: body}
}

func NewReturnStmt(sp source.Span, value Expr) *ReturnStmt {
	return &ReturnStmt{StmtBase: stmtBase(sp), Value: value}
}

func NewBreakStmt(sp source.Span) *BreakStmt       { return &BreakStmt{stmtBase(sp)} }
func NewContinueStmt(sp source.Span) *ContinueStmt { return &ContinueStmt{stmtBase(sp)} }

func NewBlockStmt(sp source.Span, stmts []Stmt) *BlockStmt {
	return &BlockStmt{StmtBase: stmtBase(sp), Stmts: stmts}
}

func NewExprStmt(sp source.Span, x Expr) *ExprStmt {
	return &ExprStmt{StmtBase: stmtBase(sp), X: x}
}
