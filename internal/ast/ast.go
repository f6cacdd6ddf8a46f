// Package ast defines the abstract syntax tree produced by the quill parser.
//
// Every node carries the span of its full textual extent. The tree is owned
// top-down: a parent holds its children by pointer, children never point back
// and no node is shared between two parents.
package ast

import (
	"quill/internal/source"
	"quill/internal/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() source.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span source.Span
}

func (n NodeBase) nodeNode()            {}
func (n NodeBase) GetSpan() source.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// File is the root of a parsed source file.
type File struct {
	NodeBase
	Stmts []Stmt
}

// Ident is a name together with its span (binding sites, parameters, members).
type Ident struct {
	Name string
	Span source.Span
}

// ---- expressions ----

// IdentExpr represents an identifier reference.
type IdentExpr struct {
	ExprBase
	Name string
}

// LiteralExpr is an int, float, string, bool or nil literal.
type LiteralExpr struct {
	ExprBase
	Value token.Literal
}

// UnaryExpr represents a prefix operation: !x, -x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// BinaryExpr represents a binary operation: a + b, x == y, a && b, lo..hi.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// AssignExpr is "target = value" or a compound form like "target += value".
type AssignExpr struct {
	ExprBase
	Op     token.Kind
	Target Expr
	Value  Expr
}

// GroupExpr is a parenthesized expression; kept so spans include the parens.
type GroupExpr struct {
	ExprBase
	Inner Expr
}

// CallExpr is callee(args...).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// IndexExpr is target[index].
type IndexExpr struct {
	ExprBase
	Target Expr
	Index  Expr
}

// MemberExpr is target.name.
type MemberExpr struct {
	ExprBase
	Target Expr
	Name   Ident
}

// ListExpr is [a, b, c].
type ListExpr struct {
	ExprBase
	Elems []Expr
}

// FnExpr is an anonymous function literal: fn(a, b) { ... }.
type FnExpr struct {
	ExprBase
	Params []Ident
	Body   *BlockStmt
}

// ---- statements ----

// LetStmt is "let name = value;".
type LetStmt struct {
	StmtBase
	Name  Ident
	Value Expr
}

// FnStmt is a named function declaration.
type FnStmt struct {
	StmtBase
	Name   Ident
	Params []Ident
	Body   *BlockStmt
}

// IfStmt is "if cond { ... } else ...". Else is nil, *BlockStmt or *IfStmt.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

// WhileStmt is "while cond { ... }".
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body *BlockStmt
}

// ForStmt is "for name in iter { ... }".
type ForStmt struct {
	StmtBase
	Var  Ident
	Iter Expr
	Body *BlockStmt
}

// ReturnStmt is "return value?;". Value may be nil.
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// BreakStmt is "break;".
type BreakStmt struct{ StmtBase }

// ContinueStmt is "continue;".
type ContinueStmt struct{ StmtBase }

// BlockStmt is "{ stmts... }".
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// ExprStmt is an expression followed by ';'.
type ExprStmt struct {
	StmtBase
	X Expr
}
