package ast

// Inspect walks expressions depth-first, calling f before children. If f
// returns false the children of that node are skipped.
func Inspect(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	switch x := e.(type) {
	case *NameExpr:
		for _, a := range x.Template {
			Inspect(a, f)
		}
	case *CallExpr:
		Inspect(x.Callee, f)
		for _, a := range x.Args {
			Inspect(a, f)
		}
	case *BinaryExpr:
		Inspect(x.X, f)
		Inspect(x.Y, f)
	case *UnaryExpr:
		Inspect(x.X, f)
	case *MemberExpr:
		Inspect(x.X, f)
	case *IndexExpr:
		Inspect(x.X, f)
		Inspect(x.Index, f)
	case *ParenExpr:
		Inspect(x.X, f)
	}
}
