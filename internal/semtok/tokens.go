package semtok

import (
	"cmp"
	"slices"

	"wgslsp/internal/ir"
	"wgslsp/internal/source"
)

// Token is one highlighted range in the module source.
type Token struct {
	Span source.Span
	Type TokenType
	Mods Modifier
}

// Collect lists the tokens of m ordered by start offset. src is the text m
// was compiled from. When two tokens start at the same offset the first
// one collected wins.
func Collect(m *ir.Module, src string) []Token {
	if m == nil {
		return nil
	}
	structs := make(map[string]bool)
	for _, td := range m.Types {
		if td.Struct {
			structs[td.Name] = true
		}
	}
	var out []Token
	add := func(sp source.Span, typ TokenType, mods Modifier) {
		if sp.Empty() || int(sp.End) > len(src) {
			return
		}
		out = append(out, Token{Span: sp, Type: typ, Mods: mods})
	}
	exprs := func(list []ir.Expr) {
		for _, e := range list {
			typ, mods := exprToken(e)
			if e.Kind == ir.ExprTypeRef && !e.Builtin && structs[src[e.Span.Start:e.Span.End]] {
				typ = TypeStruct
			}
			add(e.Span, typ, mods)
		}
	}

	for _, c := range m.Constants {
		add(c.NameSpan, TypeVariable, ModReadonly)
	}
	for _, td := range m.Types {
		typ := TypeType
		if td.Struct {
			typ = TypeStruct
		}
		add(td.NameSpan, typ, 0)
	}
	for _, g := range m.Globals {
		var mods Modifier
		if g.Readonly() {
			mods = ModReadonly
		}
		add(g.NameSpan, TypeVariable, mods)
	}
	exprs(m.ConstExprs)
	for _, fn := range m.Functions {
		add(fn.NameSpan, TypeFunction, 0)
		for _, p := range fn.Params {
			add(p.NameSpan, TypeParameter, 0)
		}
		exprs(fn.Exprs)
	}

	slices.SortStableFunc(out, func(a, b Token) int { return cmp.Compare(a.Span.Start, b.Span.Start) })
	return slices.CompactFunc(out, func(a, b Token) bool { return a.Span.Start == b.Span.Start })
}

func exprToken(e ir.Expr) (TokenType, Modifier) {
	var mods Modifier
	if e.Readonly {
		mods |= ModReadonly
	}
	if e.Builtin {
		mods |= ModDefaultLibrary
	}
	switch e.Kind {
	case ir.ExprLiteral:
		return TypeNumber, 0
	case ir.ExprArgument:
		return TypeParameter, mods &^ ModReadonly
	case ir.ExprCall:
		return TypeFunction, mods
	case ir.ExprTypeRef:
		return TypeType, mods
	default:
		return TypeVariable, mods
	}
}

// Encode produces the relative five-integer encoding of the protocol:
// deltaLine, deltaStart, length, type, modifiers. Positions and lengths are
// counted in enc. Tokens spanning lines are dropped.
func Encode(tokens []Token, src string, enc source.Encoding) []uint32 {
	text := source.NewText(src)
	data := make([]uint32, 0, len(tokens)*5)
	prevLine, prevChar := 0, 0
	for _, tok := range tokens {
		r := text.RangeOf(tok.Span, enc)
		if r.Start.Line != r.End.Line {
			continue
		}
		dLine := r.Start.Line - prevLine
		dChar := r.Start.Character
		if dLine == 0 {
			dChar -= prevChar
		}
		data = append(data,
			source.SafeUint32(dLine),
			source.SafeUint32(dChar),
			source.SafeUint32(r.End.Character-r.Start.Character),
			uint32(tok.Type),
			uint32(tok.Mods),
		)
		prevLine, prevChar = r.Start.Line, r.Start.Character
	}
	return data
}
