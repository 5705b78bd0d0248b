package sema

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/ir"
)

// Lower builds the linked IR of a resolved package. Only the package's own
// declarations are included; spans stay local to its source.
func Lower(pkg *Package) *ir.Module {
	m := &ir.Module{Name: pkg.Name}
	c := &checker{pkg: pkg}
	for _, sym := range pkg.Order {
		switch d := sym.Decl.(type) {
		case *ast.ConstDecl:
			m.Constants = append(m.Constants, ir.Constant{
				Name: d.Name.Name, NameSpan: d.Name.Sp, Span: d.Sp,
				Override: d.Override, Type: c.symType(sym).String(),
			})
			m.ConstExprs = lowerExprs(pkg, m.ConstExprs, d.Type, d.Value)
		case *ast.StructDecl:
			td := ir.TypeDef{Name: d.Name.Name, NameSpan: d.Name.Sp, Span: d.Sp, Struct: true}
			for _, mem := range d.Members {
				td.Members = append(td.Members, ir.Member{
					Name: mem.Name.Name, NameSpan: mem.Name.Sp, Type: c.typeExpr(mem.Type).String(),
				})
				m.ConstExprs = lowerExprs(pkg, m.ConstExprs, mem.Type)
			}
			m.Types = append(m.Types, td)
		case *ast.AliasDecl:
			m.Types = append(m.Types, ir.TypeDef{
				Name: d.Name.Name, NameSpan: d.Name.Sp, Span: d.Sp, Type: c.typeExpr(d.Type).String(),
			})
			m.ConstExprs = lowerExprs(pkg, m.ConstExprs, d.Type)
		case *ast.VarDecl:
			g := ir.Global{
				Name: d.Name.Name, NameSpan: d.Name.Sp, Span: d.Sp,
				Space: ir.ParseAddressSpace(d.Space), Type: c.symType(sym).String(),
			}
			g.Access = ir.AccessRead
			switch {
			case d.Access == "read_write":
				g.Access |= ir.AccessWrite
			case d.Access == "write":
				g.Access = ir.AccessWrite
			case g.Space == ir.SpacePrivate || g.Space == ir.SpaceWorkgroup:
				g.Access |= ir.AccessWrite
			}
			m.Globals = append(m.Globals, g)
			m.ConstExprs = lowerExprs(pkg, m.ConstExprs, d.Type, d.Init)
		case *ast.FnDecl:
			m.Functions = append(m.Functions, lowerFn(pkg, c, d))
		}
	}
	return m
}

func lowerFn(pkg *Package, c *checker, d *ast.FnDecl) ir.Function {
	fn := ir.Function{
		Name: d.Name.Name, NameSpan: d.Name.Sp, Span: d.Sp,
		Stage: d.Stage(), Result: "",
	}
	if d.Result != nil {
		fn.Result = c.typeExpr(d.Result).String()
	}
	var exprs []ir.Expr
	for _, p := range d.Params {
		fn.Params = append(fn.Params, ir.Param{Name: p.Name.Name, NameSpan: p.Name.Sp, Type: c.typeExpr(p.Type).String()})
		exprs = lowerExprs(pkg, exprs, p.Type)
	}
	exprs = lowerExprs(pkg, exprs, d.Result)
	if d.Body != nil {
		exprs = lowerStmts(pkg, exprs, d.Body.Stmts)
	}
	fn.Exprs = exprs
	return fn
}

func lowerStmts(pkg *Package, out []ir.Expr, list []ast.Stmt) []ir.Expr {
	for _, s := range list {
		out = lowerStmt(pkg, out, s)
	}
	return out
}

func lowerStmt(pkg *Package, out []ir.Expr, s ast.Stmt) []ir.Expr {
	switch x := s.(type) {
	case *ast.BlockStmt:
		return lowerStmts(pkg, out, x.Stmts)
	case *ast.ReturnStmt:
		return lowerExprs(pkg, out, x.Value)
	case *ast.IfStmt:
		out = lowerExprs(pkg, out, x.Cond)
		out = lowerStmt(pkg, out, x.Then)
		if x.Else != nil {
			out = lowerStmt(pkg, out, x.Else)
		}
	case *ast.ForStmt:
		if x.Init != nil {
			out = lowerStmt(pkg, out, x.Init)
		}
		out = lowerExprs(pkg, out, x.Cond)
		if x.Update != nil {
			out = lowerStmt(pkg, out, x.Update)
		}
		out = lowerStmt(pkg, out, x.Body)
	case *ast.WhileStmt:
		out = lowerExprs(pkg, out, x.Cond)
		out = lowerStmt(pkg, out, x.Body)
	case *ast.LoopStmt:
		out = lowerStmt(pkg, out, x.Body)
		if x.Continuing != nil {
			out = lowerStmt(pkg, out, x.Continuing)
		}
	case *ast.BreakStmt:
		out = lowerExprs(pkg, out, x.If)
	case *ast.DeclStmt:
		out = append(out, ir.Expr{Kind: ir.ExprLocal, Span: x.Name.Sp, Readonly: x.Kind != ast.DeclVar})
		out = lowerExprs(pkg, out, x.Type, x.Init)
	case *ast.AssignStmt:
		out = lowerExprs(pkg, out, x.LHS, x.RHS)
	case *ast.IncDecStmt:
		out = lowerExprs(pkg, out, x.X)
	case *ast.CallStmt:
		out = lowerExprs(pkg, out, x.Call)
	case *ast.SwitchStmt:
		out = lowerExprs(pkg, out, x.Selector)
		for _, cl := range x.Clauses {
			out = lowerExprs(pkg, out, cl.Selectors...)
			out = lowerStmt(pkg, out, cl.Body)
		}
	case *ast.ConstAssertStmt:
		out = lowerExprs(pkg, out, x.Cond)
	}
	return out
}

// lowerExprs добавляет интересные для подсветки выражения в out.
func lowerExprs(pkg *Package, out []ir.Expr, list ...ast.Expr) []ir.Expr {
	for _, e := range list {
		if e == nil {
			continue
		}
		if n, ok := e.(*ast.NameExpr); ok && n == nil {
			continue
		}
		ast.Inspect(e, func(x ast.Expr) bool {
			switch n := x.(type) {
			case *ast.LitExpr:
				if n.Kind != ast.LitBool {
					out = append(out, ir.Expr{Kind: ir.ExprLiteral, Span: n.Sp})
				}
			case *ast.CallExpr:
				if sym := pkg.Uses[n.Callee]; sym != nil {
					kind := ir.ExprCall
					if sym.Kind.IsType() {
						kind = ir.ExprTypeRef
					}
					out = append(out, ir.Expr{Kind: kind, Span: n.Callee.NameSp, Builtin: sym.Pkg == nil})
				}
				out = lowerExprs(pkg, out, n.Callee.Template...)
				out = lowerExprs(pkg, out, n.Args...)
				return false
			case *ast.NameExpr:
				if sym := pkg.Uses[n]; sym != nil {
					out = append(out, nameExpr(sym, n))
				}
			}
			return true
		})
	}
	return out
}

func nameExpr(sym *Symbol, n *ast.NameExpr) ir.Expr {
	e := ir.Expr{Span: n.NameSp, Builtin: sym.Pkg == nil}
	switch sym.Kind {
	case SymParam:
		e.Kind = ir.ExprArgument
		e.Readonly = true
	case SymConst, SymOverride:
		e.Kind = ir.ExprConstant
		e.Readonly = true
	case SymVar:
		e.Kind = ir.ExprGlobal
		e.Readonly = sym.Readonly()
	case SymLet, SymLocalConst:
		e.Kind = ir.ExprLocal
		e.Readonly = true
	case SymLocalVar:
		e.Kind = ir.ExprLocal
	default:
		e.Kind = ir.ExprTypeRef
	}
	return e
}
