package semtok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgslsp/internal/compose"
	"wgslsp/internal/ir"
	"wgslsp/internal/source"
)

func sp(start, end uint32) source.Span { return source.Span{Start: start, End: end} }

type abs struct {
	line, char, length uint32
	typ                TokenType
	mods               Modifier
}

func decode(data []uint32) []abs {
	var out []abs
	var line, char uint32
	for i := 0; i+4 < len(data); i += 5 {
		if data[i] > 0 {
			line += data[i]
			char = data[i+1]
		} else {
			char += data[i+1]
		}
		out = append(out, abs{line, char, data[i+2], TokenType(data[i+3]), Modifier(data[i+4])})
	}
	return out
}

// fn f(x: f32) -> f32 { return x; }
// 0         1         2         3
// 0123456789012345678901234567890123
const fnSrc = "fn f(x: f32) -> f32 { return x; }\nstruct S { v: f32 }\n"

func fnModule() *ir.Module {
	return &ir.Module{
		Types: []ir.TypeDef{{Name: "S", NameSpan: sp(41, 42), Struct: true}},
		Functions: []ir.Function{{
			Name: "f", NameSpan: sp(3, 4),
			Params: []ir.Param{{Name: "x", NameSpan: sp(5, 6)}},
			Exprs: []ir.Expr{
				{Kind: ir.ExprTypeRef, Span: sp(8, 11), Builtin: true},
				{Kind: ir.ExprTypeRef, Span: sp(16, 19), Builtin: true},
				{Kind: ir.ExprArgument, Span: sp(29, 30), Readonly: true},
				// duplicate of the parameter declaration
				{Kind: ir.ExprArgument, Span: sp(5, 6), Readonly: true},
			},
		}},
	}
}

func TestCollectAndEncode(t *testing.T) {
	toks := Collect(fnModule(), fnSrc)
	got := decode(Encode(toks, fnSrc, source.UTF16))
	assert.Equal(t, []abs{
		{0, 3, 1, TypeFunction, 0},
		{0, 5, 1, TypeParameter, 0},
		{0, 8, 3, TypeType, ModDefaultLibrary},
		{0, 16, 3, TypeType, ModDefaultLibrary},
		{0, 29, 1, TypeParameter, 0},
		{1, 7, 1, TypeStruct, 0},
	}, got)
}

func TestEncodeCountsInNegotiatedUnits(t *testing.T) {
	src := "// 😀\nconst 😀a = 1;"
	start := uint32(len("// 😀\nconst 😀"))
	toks := []Token{{Span: sp(start, start+1), Type: TypeVariable, Mods: ModReadonly}}

	assert.Equal(t, []uint32{1, 8, 1, uint32(TypeVariable), uint32(ModReadonly)}, Encode(toks, src, source.UTF16))
	assert.Equal(t, []uint32{1, 7, 1, uint32(TypeVariable), uint32(ModReadonly)}, Encode(toks, src, source.UTF32))
}

func TestStructReferencesAreStructTokens(t *testing.T) {
	src := "struct Light { c: f32 }\nvar<private> l: Light;\n"
	m := &ir.Module{
		Types:   []ir.TypeDef{{Name: "Light", NameSpan: sp(7, 12), Struct: true}},
		Globals: []ir.Global{{Name: "l", NameSpan: sp(37, 38), Space: ir.SpacePrivate}},
		ConstExprs: []ir.Expr{
			{Kind: ir.ExprTypeRef, Span: sp(40, 45)},
		},
	}
	toks := Collect(m, src)
	require.Len(t, toks, 3)
	assert.Equal(t, TypeStruct, toks[2].Type)
	assert.Equal(t, Modifier(0), toks[1].Mods)
}

func TestCollectFromComposedModule(t *testing.T) {
	c := compose.New()
	src := "const K: f32 = 2.0;\nfn twice(v: f32) -> f32 { return v * K; }\n"
	require.NoError(t, c.AddComposableModule(compose.ModuleDescriptor{Name: "m", Source: src}))
	m, err := c.Link("m")
	require.NoError(t, err)

	byText := map[string]Token{}
	for _, tok := range Collect(m, src) {
		byText[src[tok.Span.Start:tok.Span.End]] = tok
	}
	assert.Equal(t, TypeFunction, byText["twice"].Type)
	assert.Equal(t, TypeParameter, byText["v"].Type)
	assert.Equal(t, TypeNumber, byText["2.0"].Type)
	assert.Equal(t, Token{Span: byText["K"].Span, Type: TypeVariable, Mods: ModReadonly}, byText["K"])
}

func TestCacheKeysOnSnapshot(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)
	loc := source.Location("file:///f.wgsl")

	first := c.Tokens(loc, fnModule(), fnSrc, source.UTF16)
	again := c.Tokens(loc, nil, fnSrc, source.UTF16)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, c.Len())

	assert.Empty(t, c.Tokens(loc, nil, fnSrc+" ", source.UTF16))
	assert.Equal(t, 2, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestNewCacheSizeBounds(t *testing.T) {
	_, err := NewCache(MaxCacheSize + 1)
	require.Error(t, err)

	c, err := NewCache(0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.NotPanics(t, func() { MustNewCache(DefaultCacheSize) })
	assert.Panics(t, func() { MustNewCache(MaxCacheSize + 1) })
}
