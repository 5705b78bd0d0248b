package ast

import (
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

type Stmt interface {
	Node
	stmtNode()
}

type BlockStmt struct {
	Stmts []Stmt
	Sp    source.Span
}

type ReturnStmt struct {
	Value Expr // nil for a bare return
	Sp    source.Span
}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt // *IfStmt, *BlockStmt or nil
	Sp   source.Span
}

type ForStmt struct {
	Init   Stmt
	Cond   Expr
	Update Stmt
	Body   *BlockStmt
	Sp     source.Span
}

type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Sp   source.Span
}

type LoopStmt struct {
	Body       *BlockStmt
	Continuing *BlockStmt
	Sp         source.Span
}

type BreakStmt struct {
	If Expr // break if <cond>; only inside continuing
	Sp source.Span
}

type ContinueStmt struct{ Sp source.Span }

type DiscardStmt struct{ Sp source.Span }

type DeclKind uint8

const (
	DeclLet DeclKind = iota
	DeclVar
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclConst:
		return "const"
	default:
		return "let"
	}
}

// DeclStmt is a function-scope let, var or const.
type DeclStmt struct {
	Kind  DeclKind
	Name  Ident
	Type  *NameExpr
	Init  Expr
	Space string // var<function>
	Sp    source.Span
}

// AssignStmt covers '=', compound assignments and the phony '_ = e'.
type AssignStmt struct {
	LHS Expr // nil for '_'
	Op  token.Kind
	RHS Expr
	Sp  source.Span
}

type IncDecStmt struct {
	X  Expr
	Op token.Kind
	Sp source.Span
}

type CallStmt struct {
	Call *CallExpr
	Sp   source.Span
}

type CaseClause struct {
	Selectors []Expr
	Default   bool
	Body      *BlockStmt
	Sp        source.Span
}

type SwitchStmt struct {
	Selector Expr
	Clauses  []*CaseClause
	Sp       source.Span
}

type ConstAssertStmt struct {
	Cond Expr
	Sp   source.Span
}

func (s *BlockStmt) Span() source.Span       { return s.Sp }
func (s *ReturnStmt) Span() source.Span      { return s.Sp }
func (s *IfStmt) Span() source.Span          { return s.Sp }
func (s *ForStmt) Span() source.Span         { return s.Sp }
func (s *WhileStmt) Span() source.Span       { return s.Sp }
func (s *LoopStmt) Span() source.Span        { return s.Sp }
func (s *BreakStmt) Span() source.Span       { return s.Sp }
func (s *ContinueStmt) Span() source.Span    { return s.Sp }
func (s *DiscardStmt) Span() source.Span     { return s.Sp }
func (s *DeclStmt) Span() source.Span        { return s.Sp }
func (s *AssignStmt) Span() source.Span      { return s.Sp }
func (s *IncDecStmt) Span() source.Span      { return s.Sp }
func (s *CallStmt) Span() source.Span        { return s.Sp }
func (s *SwitchStmt) Span() source.Span      { return s.Sp }
func (s *ConstAssertStmt) Span() source.Span { return s.Sp }

func (*BlockStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()      {}
func (*IfStmt) stmtNode()          {}
func (*ForStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()       {}
func (*LoopStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()       {}
func (*ContinueStmt) stmtNode()    {}
func (*DiscardStmt) stmtNode()     {}
func (*DeclStmt) stmtNode()        {}
func (*AssignStmt) stmtNode()      {}
func (*IncDecStmt) stmtNode()      {}
func (*CallStmt) stmtNode()        {}
func (*SwitchStmt) stmtNode()      {}
func (*ConstAssertStmt) stmtNode() {}
