package sema

import (
	"fmt"
	"strconv"
	"strings"

	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/token"
)

// Check type-checks a resolved package: global initializers and function
// bodies. Literals follow the strict rules: an unsuffixed integer is i32, an
// unsuffixed float is f32, and there are no implicit conversions.
func Check(pkg *Package, r diag.Reporter) {
	if !pkg.resolved {
		return
	}
	c := &checker{pkg: pkg, r: r}
	for _, sym := range pkg.Order {
		switch d := sym.Decl.(type) {
		case *ast.ConstDecl:
			c.checkInit(d.Sp, d.Name.Name, c.typeExpr(d.Type), d.Value)
		case *ast.VarDecl:
			c.checkInit(d.Sp, d.Name.Name, c.typeExpr(d.Type), d.Init)
		case *ast.FnDecl:
			c.fn(d)
		}
	}
	for _, d := range pkg.File.Decls {
		if ca, ok := d.(*ast.ConstAssertDecl); ok {
			c.cond(ca.Cond, "const_assert")
		}
	}
}

type checker struct {
	pkg    *Package
	r      diag.Reporter
	result *Type
	hasRes bool
}

// in переключает checker на другой пакет для вычисления типа его объявления.
func (c *checker) in(pkg *Package) *checker {
	if pkg == c.pkg || pkg == nil {
		return c
	}
	return &checker{pkg: pkg, r: nil}
}

func (c *checker) errorf(code diag.Code, node ast.Node, format string, args ...any) *diag.Builder {
	return diag.Error(c.r, code, node.Span(), fmt.Sprintf(format, args...))
}

// ===== Типы объявлений =====

func (c *checker) symType(sym *Symbol) *Type {
	if sym == nil {
		return nil
	}
	if sym.typed || sym.resolving {
		return sym.typ
	}
	sym.resolving = true
	defer func() { sym.resolving = false }()
	o := c.in(sym.Pkg)
	var t *Type
	switch d := sym.Decl.(type) {
	case *ast.StructDecl:
		st := &Type{Kind: TyStruct, Name: d.Name.Name}
		sym.typ, sym.typed = st, true
		for _, m := range d.Members {
			st.Fields = append(st.Fields, Field{Name: m.Name.Name, Type: o.typeExpr(m.Type)})
		}
		return st
	case *ast.AliasDecl:
		t = o.typeExpr(d.Type)
	case *ast.ConstDecl:
		t = o.typeExpr(d.Type)
		if t == nil && d.Value != nil {
			t = o.exprType(d.Value)
		}
	case *ast.VarDecl:
		t = o.typeExpr(d.Type)
		if t == nil && d.Init != nil {
			t = o.exprType(d.Init)
		}
	case *ast.FnDecl:
		ft := &Type{Kind: TyFunc, Name: d.Name.Name}
		for _, p := range d.Params {
			ft.Params = append(ft.Params, o.typeExpr(p.Type))
		}
		ft.Result = o.typeExpr(d.Result)
		t = ft
	case *ast.Param:
		t = o.typeExpr(d.Type)
	case *ast.DeclStmt:
		// локальные получают тип при обходе тела
		return sym.typ
	}
	sym.typ, sym.typed = t, true
	return t
}

// typeExpr переводит ссылку на тип в *Type.
func (c *checker) typeExpr(n *ast.NameExpr) *Type {
	if n == nil {
		return nil
	}
	sym := c.pkg.Uses[n]
	if sym == nil {
		return nil
	}
	if sym.Kind != SymBuiltinType {
		return c.symType(sym)
	}
	name := sym.Name
	if t := scalarByName(name); t != nil {
		return t
	}
	if n, elem, ok := vecShorthand(name); ok {
		return Vec(n, elem)
	}
	targ := func(i int) *Type {
		if i >= len(n.Template) {
			return nil
		}
		if tn, ok := n.Template[i].(*ast.NameExpr); ok {
			return c.typeExpr(tn)
		}
		return nil
	}
	if cols, rows, elem, ok := matShape(name); ok {
		if elem == nil {
			elem = targ(0)
		}
		return Mat(cols, rows, elem)
	}
	switch {
	case strings.HasPrefix(name, "vec"):
		return Vec(int(name[3]-'0'), targ(0))
	case name == "array":
		elem := targ(0)
		if elem == nil {
			return nil
		}
		size := 0
		if len(n.Template) > 1 {
			size = c.constInt(n.Template[1])
		}
		return &Type{Kind: TyArray, Elem: elem, N: size}
	case name == "ptr":
		space := ""
		if len(n.Template) > 0 {
			if sp, ok := n.Template[0].(*ast.NameExpr); ok {
				space = sp.Name()
			}
		}
		return &Type{Kind: TyPointer, Space: space, Elem: targ(1)}
	case name == "atomic":
		return &Type{Kind: TyAtomic, Elem: targ(0)}
	case strings.HasPrefix(name, "sampler"):
		return &Type{Kind: TySampler, Name: name}
	case strings.HasPrefix(name, "texture_"):
		t := &Type{Kind: TyTexture, Name: name}
		if !strings.HasPrefix(name, "texture_storage") && !strings.HasPrefix(name, "texture_depth") {
			t.Elem = targ(0)
		}
		return t
	}
	return nil
}

// constInt вычисляет целочисленную константу (размер массива); -1 — не вычисляется.
func (c *checker) constInt(e ast.Expr) int {
	switch x := e.(type) {
	case *ast.LitExpr:
		if x.Kind != ast.LitInt {
			return -1
		}
		v, err := strconv.ParseInt(strings.TrimRight(x.Text, "iu"), 0, 64)
		if err != nil {
			return -1
		}
		return int(v)
	case *ast.ParenExpr:
		return c.constInt(x.X)
	case *ast.NameExpr:
		sym := c.pkg.Uses[x]
		if sym == nil || sym.Kind != SymConst {
			return -1
		}
		return c.in(sym.Pkg).constInt(sym.Decl.(*ast.ConstDecl).Value)
	case *ast.BinaryExpr:
		a, b := c.constInt(x.X), c.constInt(x.Y)
		if a < 0 || b < 0 {
			return -1
		}
		switch x.Op {
		case token.Plus:
			return a + b
		case token.Minus:
			return a - b
		case token.Star:
			return a * b
		}
	}
	return -1
}

// ===== Выражения =====

func (c *checker) exprType(e ast.Expr) *Type {
	switch x := e.(type) {
	case nil:
		return nil
	case *ast.LitExpr:
		return litType(x)
	case *ast.ParenExpr:
		return c.exprType(x.X)
	case *ast.NameExpr:
		return c.symType(c.pkg.Uses[x])
	case *ast.CallExpr:
		return c.call(x)
	case *ast.BinaryExpr:
		return c.binary(x)
	case *ast.UnaryExpr:
		return c.unary(x)
	case *ast.MemberExpr:
		return c.member(x)
	case *ast.IndexExpr:
		return c.index(x)
	}
	return nil
}

func litType(x *ast.LitExpr) *Type {
	switch x.Kind {
	case ast.LitBool:
		return Bool
	case ast.LitFloat:
		if strings.HasSuffix(x.Text, "h") {
			return F16
		}
		return F32
	default:
		if strings.HasSuffix(x.Text, "u") {
			return U32
		}
		return I32
	}
}

func (c *checker) call(x *ast.CallExpr) *Type {
	args := make([]*Type, len(x.Args))
	for i, a := range x.Args {
		args[i] = c.exprType(a)
	}
	sym := c.pkg.Uses[x.Callee]
	if sym == nil {
		return nil
	}
	switch {
	case sym.Kind == SymBuiltinFn:
		if sym.Name == "bitcast" && len(x.Callee.Template) > 0 {
			if tn, ok := x.Callee.Template[0].(*ast.NameExpr); ok {
				return c.typeExpr(tn)
			}
		}
		return builtinFuncs[sym.Name](args)
	case sym.Kind == SymFn:
		ft := c.symType(sym)
		if ft == nil {
			return nil
		}
		if len(args) != len(ft.Params) {
			c.errorf(diag.SemArgCount, x, "function '%s' expects %d arguments, but %d were given",
				sym.Name, len(ft.Params), len(args)).
				Note(x.Callee.NameSp, "").
				Emit()
			return ft.Result
		}
		for i, want := range ft.Params {
			if !Identical(args[i], want) {
				c.errorf(diag.SemInitMismatch, x, "argument %d of '%s' has type '%s', expected '%s'",
					i+1, sym.Name, args[i], want).
					Note(x.Args[i].Span(), "this argument has type '"+args[i].String()+"'").
					Emit()
				break
			}
		}
		return ft.Result
	case sym.Kind.IsType():
		return c.construct(x, sym, args)
	}
	return nil
}

// construct — конструктор значения; аргументы проверяются мягко.
func (c *checker) construct(x *ast.CallExpr, sym *Symbol, args []*Type) *Type {
	if sym.Kind != SymBuiltinType || len(x.Callee.Template) > 0 {
		return c.typeExpr(x.Callee)
	}
	name := sym.Name
	switch {
	case name == "vec2" || name == "vec3" || name == "vec4":
		elem := F32
		if len(args) > 0 && args[0].Scalar() != nil {
			elem = args[0].Scalar()
		}
		return Vec(int(name[3]-'0'), elem)
	case name == "array":
		if len(args) == 0 {
			return nil
		}
		return &Type{Kind: TyArray, Elem: args[0], N: len(args)}
	}
	if cols, rows, elem, ok := matShape(name); ok && elem == nil {
		elem = F32
		if len(args) > 0 && args[0].Scalar() != nil {
			elem = args[0].Scalar()
		}
		return Mat(cols, rows, elem)
	}
	return c.typeExpr(x.Callee)
}

func (c *checker) binary(x *ast.BinaryExpr) *Type {
	a, b := c.exprType(x.X), c.exprType(x.Y)
	if a == nil || b == nil {
		return nil
	}
	if t := binaryResult(x.Op, a, b); t != nil {
		return t
	}
	c.errorf(diag.SemOperandMismatch, x, "operator %s cannot be applied to '%s' and '%s'", x.Op, a, b).
		Note(x.X.Span(), "this has type '"+a.String()+"'").
		Note(x.Y.Span(), "this has type '"+b.String()+"'").
		Emit()
	return nil
}

func binaryResult(op token.Kind, a, b *Type) *Type {
	switch op {
	case token.AndAnd, token.OrOr:
		if a.Kind == TyBool && b.Kind == TyBool {
			return Bool
		}
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		if !Identical(a, b) || (a.Scalar() == nil) {
			return nil
		}
		if a.Kind == TyVector {
			return Vec(a.N, Bool)
		}
		return Bool
	case token.Amp, token.Pipe, token.Caret:
		if Identical(a, b) && (a.Scalar().IsInteger() || a.Scalar() == Bool) {
			return a
		}
	case token.Shl, token.Shr:
		if a.Scalar().IsInteger() && b.Scalar().IsInteger() {
			return a
		}
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		return arithResult(op, a, b)
	}
	return nil
}

func arithResult(op token.Kind, a, b *Type) *Type {
	sa, sb := a.Scalar(), b.Scalar()
	if !sa.IsNumeric() || !Identical(sa, sb) {
		return nil
	}
	switch {
	case Identical(a, b) && a.Kind != TyMatrix:
		return a
	case a.Kind == TyVector && b.IsScalar():
		return a
	case a.IsScalar() && b.Kind == TyVector:
		return b
	}
	if op == token.Star {
		switch {
		case a.Kind == TyMatrix && b.IsScalar():
			return a
		case a.IsScalar() && b.Kind == TyMatrix:
			return b
		case a.Kind == TyMatrix && b.Kind == TyVector && a.N == b.N:
			return Vec(a.Rows, sa)
		case a.Kind == TyVector && b.Kind == TyMatrix && a.N == b.Rows:
			return Vec(b.N, sa)
		case a.Kind == TyMatrix && b.Kind == TyMatrix && a.N == b.Rows:
			return Mat(b.N, a.Rows, sa)
		}
	}
	if (op == token.Plus || op == token.Minus) && a.Kind == TyMatrix && Identical(a, b) {
		return a
	}
	return nil
}

func (c *checker) unary(x *ast.UnaryExpr) *Type {
	t := c.exprType(x.X)
	if t == nil {
		return nil
	}
	switch x.Op {
	case token.Minus:
		if t.Scalar().IsNumeric() && t.Scalar() != U32 {
			return t
		}
	case token.Bang:
		if t.Scalar() == Bool {
			return t
		}
	case token.Tilde:
		if t.Scalar().IsInteger() {
			return t
		}
	case token.Amp:
		return &Type{Kind: TyPointer, Space: c.spaceOf(x.X), Elem: t}
	case token.Star:
		if t.Kind == TyPointer {
			return t.Elem
		}
	}
	c.errorf(diag.SemOperandMismatch, x, "operator %s cannot be applied to '%s'", x.Op, t).
		Note(x.X.Span(), "this has type '"+t.String()+"'").
		Emit()
	return nil
}

func (c *checker) spaceOf(e ast.Expr) string {
	if sym := c.root(e); sym != nil {
		if v, ok := sym.Decl.(*ast.VarDecl); ok {
			return v.Space
		}
	}
	return "function"
}

func (c *checker) member(x *ast.MemberExpr) *Type {
	t := c.exprType(x.X)
	if t != nil && t.Kind == TyPointer {
		t = t.Elem
	}
	if t == nil {
		return nil
	}
	name := x.Member.Name
	switch t.Kind {
	case TyStruct:
		if ft, ok := t.FieldByName(name); ok {
			return ft
		}
		c.errorf(diag.SemUndefinedName, x, "struct '%s' has no member '%s'", t, name).
			Note(x.Member.Sp, "unknown member").
			Emit()
		return nil
	case TyVector:
		if ok := validSwizzle(name, t.N); ok {
			if len(name) == 1 {
				return t.Elem
			}
			return Vec(len(name), t.Elem)
		}
		c.errorf(diag.SemUndefinedName, x, "invalid swizzle '%s' on '%s'", name, t).
			Note(x.Member.Sp, "invalid swizzle").
			Emit()
		return nil
	}
	c.errorf(diag.SemUndefinedName, x, "type '%s' has no members", t).
		Note(x.Member.Sp, "").
		Emit()
	return nil
}

func validSwizzle(s string, width int) bool {
	if len(s) < 1 || len(s) > 4 {
		return false
	}
	for _, set := range []string{"xyzw", "rgba"} {
		ok := true
		for i := 0; i < len(s); i++ {
			idx := strings.IndexByte(set, s[i])
			if idx < 0 || idx >= width {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (c *checker) index(x *ast.IndexExpr) *Type {
	t := c.exprType(x.X)
	c.exprType(x.Index)
	if t != nil && t.Kind == TyPointer {
		t = t.Elem
	}
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TyArray, TyVector:
		return t.Elem
	case TyMatrix:
		return Vec(t.Rows, t.Elem)
	}
	c.errorf(diag.SemOperandMismatch, x, "type '%s' cannot be indexed", t).
		Note(x.X.Span(), "this has type '"+t.String()+"'").
		Emit()
	return nil
}

// root возвращает переменную в основании выражения доступа (a.b[i].c → a).
func (c *checker) root(e ast.Expr) *Symbol {
	for {
		switch x := e.(type) {
		case *ast.NameExpr:
			return c.pkg.Uses[x]
		case *ast.MemberExpr:
			e = x.X
		case *ast.IndexExpr:
			e = x.X
		case *ast.ParenExpr:
			e = x.X
		case *ast.UnaryExpr:
			if x.Op != token.Star {
				return nil
			}
			e = x.X
		default:
			return nil
		}
	}
}
