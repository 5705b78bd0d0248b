package sema

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/source"
)

// SymKind classifies what a name refers to.
type SymKind uint8

const (
	SymStruct SymKind = iota
	SymAlias
	SymConst
	SymOverride
	SymVar
	SymFn
	SymParam
	SymLet
	SymLocalVar
	SymLocalConst
	SymBuiltinType
	SymBuiltinFn
)

// IsType reports whether the symbol names a type.
func (k SymKind) IsType() bool {
	return k == SymStruct || k == SymAlias || k == SymBuiltinType
}

// IsLocal reports whether the symbol lives in function scope.
func (k SymKind) IsLocal() bool {
	return k == SymParam || k == SymLet || k == SymLocalVar || k == SymLocalConst
}

// Symbol is a resolved declaration.
type Symbol struct {
	Kind   SymKind
	Name   string
	Pkg    *Package // nil for builtins
	Decl   ast.Node
	NameSp source.Span

	typ       *Type
	typed     bool
	resolving bool
}

// Readonly reports whether writes through the symbol are rejected.
func (s *Symbol) Readonly() bool {
	switch s.Kind {
	case SymVar:
		v := s.Decl.(*ast.VarDecl)
		switch v.Space {
		case "uniform", "":
			// без address space на уровне модуля бывают только текстуры и сэмплеры
			return true
		case "storage":
			return v.Access != "read_write" && v.Access != "write"
		}
		return false
	case SymLocalVar:
		return false
	default:
		return true
	}
}

// Import makes the declarations of another composed module visible.
type Import struct {
	Module *Package
	// Path is the module path as written, e.g. "lib::util".
	Path string
	// Alias is the qualifier usable instead of Path; defaults to the last
	// path segment.
	Alias string
	// Items lists names imported unqualified. Nil means none.
	Items []ImportItem
	// Glob makes every declaration visible unqualified (quoted imports).
	Glob bool
}

type ImportItem struct {
	Name  string
	Alias string
	Span  source.Span
}

// Visible returns the unqualified name the item is bound to.
func (it ImportItem) Visible() string {
	if it.Alias != "" {
		return it.Alias
	}
	return it.Name
}

// Package is one module being resolved and checked.
type Package struct {
	Name    string
	File    *ast.File
	Imports []*Import

	Decls map[string]*Symbol
	Order []*Symbol
	// Uses maps every resolved name reference to its symbol.
	Uses map[*ast.NameExpr]*Symbol
	// Locals maps local declarations (params, let, var) to their symbols.
	Locals map[ast.Node]*Symbol

	resolved bool
}

func NewPackage(name string, file *ast.File, imports []*Import) *Package {
	return &Package{
		Name:    name,
		File:    file,
		Imports: imports,
		Decls:   make(map[string]*Symbol),
		Uses:    make(map[*ast.NameExpr]*Symbol),
		Locals:  make(map[ast.Node]*Symbol),
	}
}

// Exported returns a top-level declaration by name.
func (p *Package) Exported(name string) (*Symbol, bool) {
	sym, ok := p.Decls[name]
	return sym, ok
}

func builtinSymbol(name string) *Symbol {
	switch {
	case isBuiltinType(name):
		return &Symbol{Kind: SymBuiltinType, Name: name}
	case isBuiltinFunc(name):
		return &Symbol{Kind: SymBuiltinFn, Name: name}
	default:
		return nil
	}
}

// scope — цепочка областей видимости функции.
type scope struct {
	parent *scope
	names  map[string]*Symbol
}

func (s *scope) lookup(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[name]; ok {
			return sym
		}
	}
	return nil
}

func (p *Package) qualify(prefix string) *Import {
	for _, imp := range p.Imports {
		if imp.Path == prefix || imp.Alias == prefix {
			return imp
		}
	}
	return nil
}

func (p *Package) lookupUnqualified(name string) *Symbol {
	if sym, ok := p.Decls[name]; ok {
		return sym
	}
	for _, imp := range p.Imports {
		for _, it := range imp.Items {
			if it.Visible() == name {
				if sym, ok := imp.Module.Exported(it.Name); ok {
					return sym
				}
			}
		}
	}
	for _, imp := range p.Imports {
		if imp.Glob {
			if sym, ok := imp.Module.Exported(name); ok {
				return sym
			}
		}
	}
	return builtinSymbol(name)
}
