package ast

import (
	"strings"

	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// Expr is an expression node. Type references are expressions too: a
// *NameExpr with template arguments spells vec3<f32> or array<T, 4>.
type Expr interface {
	Node
	exprNode()
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
)

type LitExpr struct {
	Kind LitKind
	Text string
	Sp   source.Span
}

// NameExpr is a possibly qualified name (a::b::c), optionally followed by a
// template list.
type NameExpr struct {
	Path     []string
	NameSp   source.Span
	Template []Expr
	Sp       source.Span
}

// Name returns the path joined with "::".
func (n *NameExpr) Name() string { return strings.Join(n.Path, "::") }

// Qualified reports whether the name carries a module prefix.
func (n *NameExpr) Qualified() bool { return len(n.Path) > 1 }

// Last returns the final path segment.
func (n *NameExpr) Last() string { return n.Path[len(n.Path)-1] }

// Prefix returns the module part of a qualified name.
func (n *NameExpr) Prefix() string { return strings.Join(n.Path[:len(n.Path)-1], "::") }

type CallExpr struct {
	Callee *NameExpr
	Args   []Expr
	Sp     source.Span
}

type BinaryExpr struct {
	Op   token.Kind
	X, Y Expr
	Sp   source.Span
}

type UnaryExpr struct {
	Op token.Kind
	X  Expr
	Sp source.Span
}

type MemberExpr struct {
	X      Expr
	Member Ident
	Sp     source.Span
}

type IndexExpr struct {
	X, Index Expr
	Sp       source.Span
}

type ParenExpr struct {
	X  Expr
	Sp source.Span
}

// BadExpr stands in for an expression that failed to parse.
type BadExpr struct {
	Sp source.Span
}

func (e *LitExpr) Span() source.Span    { return e.Sp }
func (e *NameExpr) Span() source.Span   { return e.Sp }
func (e *CallExpr) Span() source.Span   { return e.Sp }
func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) Span() source.Span  { return e.Sp }
func (e *MemberExpr) Span() source.Span { return e.Sp }
func (e *IndexExpr) Span() source.Span  { return e.Sp }
func (e *ParenExpr) Span() source.Span  { return e.Sp }
func (e *BadExpr) Span() source.Span    { return e.Sp }

func (*LitExpr) exprNode()    {}
func (*NameExpr) exprNode()   {}
func (*CallExpr) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*MemberExpr) exprNode() {}
func (*IndexExpr) exprNode()  {}
func (*ParenExpr) exprNode()  {}
func (*BadExpr) exprNode()    {}
