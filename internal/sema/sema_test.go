package sema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgslsp/internal/diag"
	"wgslsp/internal/ir"
	"wgslsp/internal/parser"
)

type result struct {
	pkg     *Package
	resolve *diag.Bag
	check   *diag.Bag
	src     string
}

func build(t *testing.T, name, src string, imports ...*Import) result {
	t.Helper()
	pbag := diag.NewBag(20)
	file := parser.Parse(src, parser.Options{Reporter: pbag})
	require.Zero(t, pbag.Len(), "parse errors: %v", pbag.Items())
	pkg := NewPackage(name, file, imports)
	res := result{pkg: pkg, resolve: diag.NewBag(20), check: diag.NewBag(20), src: src}
	Resolve(pkg, res.resolve)
	if res.resolve.Len() == 0 {
		Check(pkg, res.check)
	}
	return res
}

func codes(b *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range b.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestResolveClean(t *testing.T) {
	r := build(t, "m", `
struct Light { color: vec3<f32> }
const COUNT: i32 = 4;
var<private> lights: array<Light, COUNT>;
fn sum() -> vec3<f32> {
    var acc = vec3<f32>(0.0);
    for (var i = 0; i < COUNT; i++) {
        acc = acc + lights[i].color;
    }
    return acc;
}
`)
	assert.Empty(t, r.resolve.Items())
	assert.Empty(t, r.check.Items())

	ty := r.pkg.Decls["lights"]
	require.NotNil(t, ty)
	lt := (&checker{pkg: r.pkg}).symType(ty)
	assert.Equal(t, "array<Light, 4>", lt.String())
}

func TestResolveUndefinedAndDuplicate(t *testing.T) {
	r := build(t, "m", "fn f() -> f32 { return missing; }\nfn f() {}\n")
	assert.ElementsMatch(t, []diag.Code{diag.SemUndefinedName, diag.SemDuplicateDecl}, codes(r.resolve))
	for _, d := range r.resolve.Items() {
		if d.Code == diag.SemUndefinedName {
			assert.Equal(t, "missing", r.src[d.Primary.Start:d.Primary.End])
		}
		if d.Code == diag.SemDuplicateDecl {
			require.Len(t, d.Notes, 1)
			assert.Equal(t, uint32(strings.Index(r.src, "f(")), d.Notes[0].Span.Start)
		}
	}
}

func TestResolveUnknownType(t *testing.T) {
	r := build(t, "m", "var<private> x: Missing;\nfn g(a: i32) { let v: a = 1; }")
	assert.Equal(t, []diag.Code{diag.SemUnknownType, diag.SemUnknownType}, codes(r.resolve))
}

func TestLocalScopes(t *testing.T) {
	r := build(t, "m", `
fn f() {
    { let inner = 1; }
    let x = inner;
}
fn g() {
    loop {
        let stop = true;
        continuing { break if stop; }
    }
}
`)
	require.Equal(t, []diag.Code{diag.SemUndefinedName}, codes(r.resolve))
	d := r.resolve.Items()[0]
	assert.Equal(t, "inner", r.src[d.Primary.Start:d.Primary.End])
}

func dependency(t *testing.T) *Package {
	t.Helper()
	return build(t, "lib::util", `
struct Light { color: vec3<f32> }
const SCALE: f32 = 2.0;
fn make(c: vec3<f32>) -> Light { return Light(c * SCALE); }
`).pkg
}

func TestImports(t *testing.T) {
	dep := dependency(t)
	r := build(t, "app", `
fn a() -> util::Light { return lib::util::make(vec3<f32>(1.0)); }
fn b() -> f32 { return SCALE * 2.0; }
fn c() -> Light { return u::make(vec3<f32>(0.0)); }
`,
		&Import{Module: dep, Path: "lib::util", Alias: "util", Items: []ImportItem{{Name: "SCALE"}}},
		&Import{Module: dep, Path: "lib::util", Alias: "u", Items: []ImportItem{{Name: "Light"}}},
	)
	assert.Empty(t, r.resolve.Items())
	assert.Empty(t, r.check.Items())
}

func TestImportErrors(t *testing.T) {
	dep := dependency(t)
	r := build(t, "app", "fn a() -> f32 { return util::NOPE + other::X; }",
		&Import{Module: dep, Path: "lib::util", Alias: "util"})
	require.Len(t, r.resolve.Items(), 2)
	assert.Contains(t, r.resolve.Items()[0].Message, "no declaration named 'NOPE'")
	assert.Contains(t, r.resolve.Items()[1].Message, "unknown module 'other'")
}

func TestImportedNameClash(t *testing.T) {
	dep := dependency(t)
	r := build(t, "app", "const SCALE: f32 = 1.0;",
		&Import{Module: dep, Path: "lib::util", Alias: "util", Items: []ImportItem{{Name: "SCALE"}}})
	assert.Equal(t, []diag.Code{diag.SemDuplicateDecl}, codes(r.resolve))
}

func TestReturnMismatchPointsAtValue(t *testing.T) {
	r := build(t, "m", "fn f() -> f32 { return 1; }")
	require.Equal(t, []diag.Code{diag.SemReturnMismatch}, codes(r.check))
	d := r.check.Items()[0]
	assert.Equal(t, "return 1;", r.src[d.Primary.Start:d.Primary.End])
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "1", r.src[d.Notes[0].Span.Start:d.Notes[0].Span.End])
	assert.Contains(t, d.Message, "'i32'")
}

func TestCheckErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"missing return", "fn f() -> i32 { let x = 1; }", diag.SemMissingReturn},
		{"void return", "fn f() { return 1; }", diag.SemVoidReturnValue},
		{"condition", "fn f() { if 1 { } }", diag.SemConditionNotBool},
		{"operands", "fn f() -> f32 { return 1.0 + 2; }", diag.SemOperandMismatch},
		{"init", "fn f() { let x: f32 = 1; }", diag.SemInitMismatch},
		{"arg count", "fn g(a: i32) {}\nfn f() { g(); }", diag.SemArgCount},
		{"arg type", "fn g(a: i32) {}\nfn f() { g(1.0); }", diag.SemInitMismatch},
		{"immutable", "fn f() { let x = 1; x = 2; }", diag.SemAssignImmutable},
		{"uniform", "var<uniform> u: f32;\nfn f() { u = 1.0; }", diag.SemAssignImmutable},
		{"member", "struct S { a: f32 }\nfn f(s: S) -> f32 { return s.b; }", diag.SemUndefinedName},
		{"swizzle", "fn f(v: vec2<f32>) -> f32 { return v.z; }", diag.SemUndefinedName},
		{"global init", "const X: u32 = 1;", diag.SemInitMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := build(t, "m", tc.src)
			require.Empty(t, r.resolve.Items())
			require.NotEmpty(t, r.check.Items())
			assert.Equal(t, tc.want, r.check.Items()[0].Code, r.check.Items()[0].Message)
		})
	}
}

func TestCheckAccepts(t *testing.T) {
	srcs := []string{
		"fn f() -> f32 { return 1.0; }",
		"fn f(v: vec3<f32>, m: mat3x3<f32>) -> vec3<f32> { return m * v * 2.0; }",
		"fn f(x: i32) -> i32 { if x > 0 { return 1; } else { return 2; } }",
		"fn f() -> i32 { loop { return 1; } }",
		"fn f(x: u32) -> u32 { switch x { case 0u: { return 1u; } default: { return 2u; } } }",
		"var<storage, read_write> buf: array<u32>;\nfn f() { buf[0] = 1u; buf[1] += 2u; }",
		"fn f(p: ptr<function, f32>) { *p = 1.0; }",
		"fn f(v: vec4<f32>) -> vec2<f32> { return v.xy + v.rg; }",
		"fn f() -> u32 { return bitcast<u32>(1.0); }",
		"fn f(x: i32) -> i32 { var y = x; y++; y <<= 1u; return y; }",
		"fn f() -> vec4f { return vec4(1.0, 2.0, 3.0, 4.0); }",
	}
	for _, src := range srcs {
		r := build(t, "m", src)
		assert.Empty(t, r.resolve.Items(), src)
		assert.Empty(t, r.check.Items(), src)
	}
}

func TestLower(t *testing.T) {
	src := `
const K: f32 = 2.0;
struct S { v: f32 }
@group(0) @binding(0) var<uniform> u: S;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
@compute @workgroup_size(1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let scaled = u.v * K;
    out[id.x] = max(scaled, 1.0);
}
`
	r := build(t, "m", src)
	require.Empty(t, r.resolve.Items())
	require.Empty(t, r.check.Items())
	m := Lower(r.pkg)

	require.Len(t, m.Constants, 1)
	assert.Equal(t, "K", m.Constants[0].Name)
	require.Len(t, m.Globals, 2)
	assert.True(t, m.Globals[0].Readonly())
	assert.False(t, m.Globals[1].Readonly())
	require.Len(t, m.EntryPoints(), 1)

	fn := m.Functions[0]
	assert.Equal(t, "compute", fn.Stage)
	seen := map[string]ir.ExprKind{}
	for _, e := range fn.Exprs {
		seen[src[e.Span.Start:e.Span.End]] = e.Kind
	}
	assert.Equal(t, ir.ExprGlobal, seen["u"])
	assert.Equal(t, ir.ExprConstant, seen["K"])
	assert.Equal(t, ir.ExprArgument, seen["id"])
	assert.Equal(t, ir.ExprLocal, seen["scaled"])
	assert.Equal(t, ir.ExprCall, seen["max"])
	assert.Equal(t, ir.ExprLiteral, seen["1.0"])
}
