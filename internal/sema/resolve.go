package sema

import (
	"fmt"
	"strings"

	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
)

// Resolve collects the package's declarations and binds every name
// reference. Problems here are structural: unknown or duplicate names and
// names used as the wrong sort of thing.
func Resolve(pkg *Package, r diag.Reporter) {
	rs := &resolver{pkg: pkg, r: r}
	rs.collect()
	for _, sym := range pkg.Order {
		rs.decl(sym)
	}
	for _, d := range pkg.File.Decls {
		if ca, ok := d.(*ast.ConstAssertDecl); ok {
			rs.expr(nil, ca.Cond)
		}
	}
	pkg.resolved = true
}

type resolver struct {
	pkg *Package
	r   diag.Reporter
}

func (rs *resolver) collect() {
	for _, d := range rs.pkg.File.Decls {
		id, ok := d.DeclName()
		if !ok {
			continue
		}
		sym := &Symbol{Name: id.Name, Pkg: rs.pkg, Decl: d, NameSp: id.Sp}
		switch x := d.(type) {
		case *ast.StructDecl:
			sym.Kind = SymStruct
		case *ast.AliasDecl:
			sym.Kind = SymAlias
		case *ast.ConstDecl:
			sym.Kind = SymConst
			if x.Override {
				sym.Kind = SymOverride
			}
		case *ast.VarDecl:
			sym.Kind = SymVar
		case *ast.FnDecl:
			sym.Kind = SymFn
		}
		if prev, dup := rs.pkg.Decls[id.Name]; dup {
			diag.Error(rs.r, diag.SemDuplicateDecl, id.Sp,
				fmt.Sprintf("redefinition of '%s'", id.Name)).
				Note(prev.NameSp, "previous definition of '"+id.Name+"'").
				Emit()
			continue
		}
		rs.checkImportClash(id)
		rs.pkg.Decls[id.Name] = sym
		rs.pkg.Order = append(rs.pkg.Order, sym)
	}
}

func (rs *resolver) checkImportClash(id ast.Ident) {
	for _, imp := range rs.pkg.Imports {
		for _, it := range imp.Items {
			if it.Visible() == id.Name {
				diag.Error(rs.r, diag.SemDuplicateDecl, id.Sp,
					fmt.Sprintf("'%s' is already imported from '%s'", id.Name, imp.Path)).
					Note(it.Span, "imported here").
					Emit()
				return
			}
		}
	}
}

func (rs *resolver) decl(sym *Symbol) {
	switch d := sym.Decl.(type) {
	case *ast.StructDecl:
		for _, m := range d.Members {
			rs.typeRef(nil, m.Type)
		}
	case *ast.AliasDecl:
		rs.typeRef(nil, d.Type)
	case *ast.ConstDecl:
		rs.typeRef(nil, d.Type)
		rs.expr(nil, d.Value)
	case *ast.VarDecl:
		rs.typeRef(nil, d.Type)
		rs.expr(nil, d.Init)
	case *ast.FnDecl:
		sc := &scope{names: make(map[string]*Symbol)}
		for _, p := range d.Params {
			rs.typeRef(nil, p.Type)
			ps := &Symbol{Kind: SymParam, Name: p.Name.Name, Pkg: rs.pkg, Decl: p, NameSp: p.Name.Sp}
			rs.declareLocal(sc, ps)
			rs.pkg.Locals[p] = ps
		}
		rs.typeRef(nil, d.Result)
		if d.Body != nil {
			rs.stmts(sc, d.Body.Stmts)
		}
	}
}

func (rs *resolver) declareLocal(sc *scope, sym *Symbol) {
	if prev, dup := sc.names[sym.Name]; dup {
		diag.Error(rs.r, diag.SemDuplicateDecl, sym.NameSp,
			fmt.Sprintf("redefinition of '%s'", sym.Name)).
			Note(prev.NameSp, "previous definition of '"+sym.Name+"'").
			Emit()
		return
	}
	sc.names[sym.Name] = sym
}

func (rs *resolver) block(parent *scope, b *ast.BlockStmt) {
	if b == nil {
		return
	}
	rs.stmts(&scope{parent: parent, names: make(map[string]*Symbol)}, b.Stmts)
}

func (rs *resolver) stmts(sc *scope, list []ast.Stmt) {
	for _, s := range list {
		rs.stmt(sc, s)
	}
}

func (rs *resolver) stmt(sc *scope, s ast.Stmt) {
	switch x := s.(type) {
	case *ast.BlockStmt:
		rs.block(sc, x)
	case *ast.ReturnStmt:
		rs.expr(sc, x.Value)
	case *ast.IfStmt:
		rs.expr(sc, x.Cond)
		rs.block(sc, x.Then)
		if x.Else != nil {
			rs.stmt(sc, x.Else)
		}
	case *ast.ForStmt:
		inner := &scope{parent: sc, names: make(map[string]*Symbol)}
		if x.Init != nil {
			rs.stmt(inner, x.Init)
		}
		rs.expr(inner, x.Cond)
		if x.Update != nil {
			rs.stmt(inner, x.Update)
		}
		rs.block(inner, x.Body)
	case *ast.WhileStmt:
		rs.expr(sc, x.Cond)
		rs.block(sc, x.Body)
	case *ast.LoopStmt:
		// continuing видит объявления тела цикла
		body := &scope{parent: sc, names: make(map[string]*Symbol)}
		rs.stmts(body, x.Body.Stmts)
		rs.block(body, x.Continuing)
	case *ast.BreakStmt:
		rs.expr(sc, x.If)
	case *ast.DeclStmt:
		rs.typeRef(sc, x.Type)
		rs.expr(sc, x.Init)
		kind := SymLet
		switch x.Kind {
		case ast.DeclVar:
			kind = SymLocalVar
		case ast.DeclConst:
			kind = SymLocalConst
		}
		sym := &Symbol{Kind: kind, Name: x.Name.Name, Pkg: rs.pkg, Decl: x, NameSp: x.Name.Sp}
		rs.declareLocal(sc, sym)
		rs.pkg.Locals[x] = sym
	case *ast.AssignStmt:
		rs.expr(sc, x.LHS)
		rs.expr(sc, x.RHS)
	case *ast.IncDecStmt:
		rs.expr(sc, x.X)
	case *ast.CallStmt:
		rs.expr(sc, x.Call)
	case *ast.SwitchStmt:
		rs.expr(sc, x.Selector)
		for _, c := range x.Clauses {
			for _, sel := range c.Selectors {
				rs.expr(sc, sel)
			}
			rs.block(sc, c.Body)
		}
	case *ast.ConstAssertStmt:
		rs.expr(sc, x.Cond)
	}
}

// lookup ищет имя: локальные, затем модуль, импорты и встроенные.
func (rs *resolver) lookup(sc *scope, n *ast.NameExpr) (*Symbol, string) {
	if n.Qualified() {
		prefix := n.Prefix()
		imp := rs.pkg.qualify(prefix)
		if imp == nil {
			return nil, fmt.Sprintf("unknown module '%s'", prefix)
		}
		sym, ok := imp.Module.Exported(n.Last())
		if !ok {
			return nil, fmt.Sprintf("no declaration named '%s' in module '%s'", n.Last(), imp.Path)
		}
		return sym, ""
	}
	if sc != nil {
		if sym := sc.lookup(n.Last()); sym != nil {
			return sym, ""
		}
	}
	if sym := rs.pkg.lookupUnqualified(n.Last()); sym != nil {
		return sym, ""
	}
	return nil, ""
}

// typeRef разрешает ссылку на тип вместе с её шаблонными аргументами.
func (rs *resolver) typeRef(sc *scope, n *ast.NameExpr) {
	if n == nil {
		return
	}
	sym, why := rs.lookup(sc, n)
	if sym == nil {
		if why == "" {
			why = fmt.Sprintf("unknown type '%s'", n.Name())
		}
		diag.Error(rs.r, diag.SemUnknownType, n.NameSp, why).Emit()
		return
	}
	if !sym.Kind.IsType() {
		declaredHere(diag.Error(rs.r, diag.SemUnknownType, n.NameSp,
			fmt.Sprintf("'%s' is not a type", n.Name())), sym, rs.pkg).Emit()
		return
	}
	rs.pkg.Uses[n] = sym
	rs.templateArgs(sc, sym, n)
}

func (rs *resolver) templateArgs(sc *scope, sym *Symbol, n *ast.NameExpr) {
	if sym.Kind != SymBuiltinType {
		return
	}
	name := sym.Name
	for i, arg := range n.Template {
		switch {
		case strings.HasPrefix(name, "texture_storage"):
			// формат и режим доступа — перечисления
			continue
		case name == "ptr" && i != 1:
			continue
		case name == "array" && i == 1:
			rs.expr(sc, arg)
			continue
		}
		if t, ok := arg.(*ast.NameExpr); ok {
			rs.typeRef(sc, t)
		} else {
			rs.expr(sc, arg)
		}
	}
}

func (rs *resolver) expr(sc *scope, e ast.Expr) {
	ast.Inspect(e, func(x ast.Expr) bool {
		switch n := x.(type) {
		case *ast.CallExpr:
			rs.callee(sc, n.Callee)
			for _, a := range n.Args {
				rs.expr(sc, a)
			}
			return false
		case *ast.MemberExpr:
			rs.expr(sc, n.X)
			return false
		case *ast.NameExpr:
			rs.value(sc, n)
			return false
		}
		return true
	})
}

func (rs *resolver) value(sc *scope, n *ast.NameExpr) {
	sym, why := rs.lookup(sc, n)
	if sym == nil {
		if why == "" {
			why = fmt.Sprintf("no definition in scope for identifier: '%s'", n.Name())
		}
		diag.Error(rs.r, diag.SemUndefinedName, n.NameSp, why).Emit()
		return
	}
	if sym.Kind.IsType() || sym.Kind == SymFn || sym.Kind == SymBuiltinFn {
		diag.Error(rs.r, diag.SemUndefinedName, n.NameSp,
			fmt.Sprintf("'%s' is not a value", n.Name())).Emit()
		return
	}
	rs.pkg.Uses[n] = sym
}

func (rs *resolver) callee(sc *scope, n *ast.NameExpr) {
	sym, why := rs.lookup(sc, n)
	if sym == nil {
		if why == "" {
			why = fmt.Sprintf("unknown function '%s'", n.Name())
		}
		diag.Error(rs.r, diag.SemUndefinedName, n.NameSp, why).Emit()
		return
	}
	switch {
	case sym.Kind.IsType():
		rs.pkg.Uses[n] = sym
		rs.templateArgs(sc, sym, n)
	case sym.Kind == SymFn || sym.Kind == SymBuiltinFn:
		rs.pkg.Uses[n] = sym
		if sym.Name == "bitcast" {
			for _, arg := range n.Template {
				if t, ok := arg.(*ast.NameExpr); ok {
					rs.typeRef(sc, t)
				}
			}
		}
	default:
		declaredHere(diag.Error(rs.r, diag.SemNotCallable, n.NameSp,
			fmt.Sprintf("'%s' is not callable", n.Name())), sym, rs.pkg).Emit()
	}
}

// declaredHere добавляет заметку о месте объявления, если оно в этом модуле.
func declaredHere(b *diag.Builder, sym *Symbol, pkg *Package) *diag.Builder {
	if sym.Pkg != pkg {
		return b
	}
	return b.Note(sym.NameSp, "declared here")
}
