package ast

import (
	"wgslsp/internal/source"
)

type Decl interface {
	Node
	// DeclName returns the declared name; const_assert and enable have none.
	DeclName() (Ident, bool)
}

type Member struct {
	Attrs []*Attribute
	Name  Ident
	Type  *NameExpr
	Sp    source.Span
}

type StructDecl struct {
	Name    Ident
	Members []*Member
	Sp      source.Span
}

type AliasDecl struct {
	Name Ident
	Type *NameExpr
	Sp   source.Span
}

// ConstDecl is a module-scope const or override.
type ConstDecl struct {
	Attrs    []*Attribute
	Override bool
	Name     Ident
	Type     *NameExpr
	Value    Expr
	Sp       source.Span
}

// VarDecl is a module-scope var, e.g. var<storage, read_write> buf: array<u32>.
type VarDecl struct {
	Attrs  []*Attribute
	Space  string
	Access string
	Name   Ident
	Type   *NameExpr
	Init   Expr
	Sp     source.Span
}

type Param struct {
	Attrs []*Attribute
	Name  Ident
	Type  *NameExpr
	Sp    source.Span
}

type FnDecl struct {
	Attrs       []*Attribute
	Name        Ident
	Params      []*Param
	Result      *NameExpr
	ResultAttrs []*Attribute
	Body        *BlockStmt
	Sp          source.Span
}

// Stage returns the entry point stage named by an attribute, or "".
func (f *FnDecl) Stage() string {
	for _, stage := range []string{"vertex", "fragment", "compute"} {
		if FindAttr(f.Attrs, stage) != nil {
			return stage
		}
	}
	return ""
}

type ConstAssertDecl struct {
	Cond Expr
	Sp   source.Span
}

// DirectiveDecl covers enable, requires and diagnostic directives.
type DirectiveDecl struct {
	Keyword string
	Names   []Ident
	Sp      source.Span
}

func (d *StructDecl) Span() source.Span      { return d.Sp }
func (d *AliasDecl) Span() source.Span       { return d.Sp }
func (d *ConstDecl) Span() source.Span       { return d.Sp }
func (d *VarDecl) Span() source.Span         { return d.Sp }
func (d *FnDecl) Span() source.Span          { return d.Sp }
func (d *ConstAssertDecl) Span() source.Span { return d.Sp }
func (d *DirectiveDecl) Span() source.Span   { return d.Sp }
func (d *Param) Span() source.Span           { return d.Sp }

func (d *StructDecl) DeclName() (Ident, bool)    { return d.Name, true }
func (d *AliasDecl) DeclName() (Ident, bool)     { return d.Name, true }
func (d *ConstDecl) DeclName() (Ident, bool)     { return d.Name, true }
func (d *VarDecl) DeclName() (Ident, bool)       { return d.Name, true }
func (d *FnDecl) DeclName() (Ident, bool)        { return d.Name, true }
func (*ConstAssertDecl) DeclName() (Ident, bool) { return Ident{}, false }
func (*DirectiveDecl) DeclName() (Ident, bool)   { return Ident{}, false }
