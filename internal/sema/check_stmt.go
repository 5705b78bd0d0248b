package sema

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

func (c *checker) fn(d *ast.FnDecl) {
	for _, p := range d.Params {
		if sym := c.pkg.Locals[p]; sym != nil {
			c.symType(sym)
		}
	}
	c.result = c.typeExpr(d.Result)
	c.hasRes = d.Result != nil
	if d.Body == nil {
		return
	}
	c.stmts(d.Body.Stmts)
	if c.hasRes && !returns(d.Body) {
		diag.Error(c.r, diag.SemMissingReturn, d.Sp,
			"function '"+d.Name.Name+"' must return a value on every path").
			Note(d.Name.Sp, "declared to return '"+c.result.String()+"'").
			Emit()
	}
}

// checkInit сверяет объявленный тип с типом инициализатора.
func (c *checker) checkInit(stmt source.Span, name string, declared *Type, init ast.Expr) *Type {
	if init == nil {
		return declared
	}
	got := c.exprType(init)
	if declared == nil {
		return got
	}
	if !Identical(declared, got) {
		diag.Error(c.r, diag.SemInitMismatch, stmt,
			"the type of '"+name+"' is declared as '"+declared.String()+"', but the initializer has type '"+got.String()+"'").
			Note(init.Span(), "this expression has type '"+got.String()+"'").
			Emit()
	}
	return declared
}

func (c *checker) cond(e ast.Expr, what string) {
	t := c.exprType(e)
	if t != nil && t.Kind != TyBool {
		c.errorf(diag.SemConditionNotBool, e, "%s condition must be 'bool', found '%s'", what, t).Emit()
	}
}

func (c *checker) block(b *ast.BlockStmt) {
	if b != nil {
		c.stmts(b.Stmts)
	}
}

func (c *checker) stmts(list []ast.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

func (c *checker) stmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.BlockStmt:
		c.block(x)
	case *ast.ReturnStmt:
		c.ret(x)
	case *ast.IfStmt:
		c.cond(x.Cond, "if")
		c.block(x.Then)
		if x.Else != nil {
			c.stmt(x.Else)
		}
	case *ast.ForStmt:
		if x.Init != nil {
			c.stmt(x.Init)
		}
		if x.Cond != nil {
			c.cond(x.Cond, "for")
		}
		if x.Update != nil {
			c.stmt(x.Update)
		}
		c.block(x.Body)
	case *ast.WhileStmt:
		c.cond(x.Cond, "while")
		c.block(x.Body)
	case *ast.LoopStmt:
		c.block(x.Body)
		c.block(x.Continuing)
	case *ast.BreakStmt:
		if x.If != nil {
			c.cond(x.If, "break if")
		}
	case *ast.DeclStmt:
		sym := c.pkg.Locals[x]
		t := c.checkInit(x.Sp, x.Name.Name, c.typeExpr(x.Type), x.Init)
		if sym != nil {
			sym.typ, sym.typed = t, true
		}
	case *ast.AssignStmt:
		c.assign(x)
	case *ast.IncDecStmt:
		c.mutable(x.X, x)
		if t := c.exprType(x.X); t != nil && !t.IsInteger() {
			c.errorf(diag.SemOperandMismatch, x, "operator %s cannot be applied to '%s'", x.Op, t).
				Note(x.X.Span(), "this has type '"+t.String()+"'").
				Emit()
		}
	case *ast.CallStmt:
		c.exprType(x.Call)
	case *ast.SwitchStmt:
		c.exprType(x.Selector)
		for _, cl := range x.Clauses {
			for _, sel := range cl.Selectors {
				c.exprType(sel)
			}
			c.block(cl.Body)
		}
	case *ast.ConstAssertStmt:
		c.cond(x.Cond, "const_assert")
	}
}

func (c *checker) ret(x *ast.ReturnStmt) {
	if x.Value == nil {
		if c.hasRes {
			diag.Error(c.r, diag.SemReturnMismatch, x.Sp,
				"missing return value, expected '"+c.result.String()+"'").Emit()
		}
		return
	}
	got := c.exprType(x.Value)
	if !c.hasRes {
		diag.Error(c.r, diag.SemVoidReturnValue, x.Sp,
			"function without a return type cannot return a value").
			Note(x.Value.Span(), "").
			Emit()
		return
	}
	if !Identical(got, c.result) {
		diag.Error(c.r, diag.SemReturnMismatch, x.Sp,
			"the return value has type '"+got.String()+"', but the function returns '"+c.result.String()+"'").
			Note(x.Value.Span(), "this expression has type '"+got.String()+"'").
			Emit()
	}
}

func (c *checker) assign(x *ast.AssignStmt) {
	rhs := c.exprType(x.RHS)
	if x.LHS == nil {
		return
	}
	if !c.mutable(x.LHS, x) {
		return
	}
	lhs := c.exprType(x.LHS)
	if lhs == nil || rhs == nil {
		return
	}
	if x.Op == token.Assign {
		if !Identical(lhs, rhs) {
			diag.Error(c.r, diag.SemInitMismatch, x.Sp,
				"cannot assign '"+rhs.String()+"' to '"+lhs.String()+"'").
				Note(x.RHS.Span(), "this expression has type '"+rhs.String()+"'").
				Emit()
		}
		return
	}
	op, _ := token.BinaryOf(x.Op)
	if t := binaryResult(op, lhs, rhs); t == nil || !Identical(t, lhs) {
		diag.Error(c.r, diag.SemOperandMismatch, x.Sp,
			"operator "+x.Op.String()+" cannot be applied to '"+lhs.String()+"' and '"+rhs.String()+"'").
			Note(x.RHS.Span(), "this expression has type '"+rhs.String()+"'").
			Emit()
	}
}

// mutable сообщает об ошибке, если выражение нельзя менять.
func (c *checker) mutable(lhs ast.Expr, stmt ast.Stmt) bool {
	sym := c.root(lhs)
	if sym == nil {
		return true
	}
	if !sym.Readonly() {
		return true
	}
	// через указатель-параметр писать можно
	if sym.Kind == SymParam {
		if t := c.symType(sym); t != nil && t.Kind == TyPointer {
			return true
		}
	}
	if sym.Kind == SymLet {
		if t := c.symType(sym); t != nil && t.Kind == TyPointer {
			return true
		}
	}
	diag.Error(c.r, diag.SemAssignImmutable, stmt.Span(),
		"cannot assign to '"+sym.Name+"', it is not mutable").
		Note(lhs.Span(), "").
		Emit()
	return false
}

// returns — упрощённый анализ: гарантирует ли блок возврат.
func returns(b *ast.BlockStmt) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	return stmtReturns(b.Stmts[len(b.Stmts)-1])
}

func stmtReturns(s ast.Stmt) bool {
	switch x := s.(type) {
	case *ast.ReturnStmt, *ast.DiscardStmt:
		return true
	case *ast.BlockStmt:
		return returns(x)
	case *ast.IfStmt:
		return x.Else != nil && returns(x.Then) && stmtReturns(x.Else)
	case *ast.LoopStmt:
		return !hasBreak(x.Body.Stmts)
	case *ast.SwitchStmt:
		hasDefault := false
		for _, cl := range x.Clauses {
			if cl.Default {
				hasDefault = true
			}
			if !returns(cl.Body) {
				return false
			}
		}
		return hasDefault
	}
	return false
}

// hasBreak ищет break, относящийся к текущему циклу.
func hasBreak(list []ast.Stmt) bool {
	for _, s := range list {
		switch x := s.(type) {
		case *ast.BreakStmt:
			return true
		case *ast.BlockStmt:
			if hasBreak(x.Stmts) {
				return true
			}
		case *ast.IfStmt:
			if hasBreak(x.Then.Stmts) {
				return true
			}
			if x.Else != nil && hasBreak([]ast.Stmt{x.Else}) {
				return true
			}
		}
	}
	return false
}
