package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgslsp/internal/source"
)

func composeErr(t *testing.T, err error) *Error {
	t.Helper()
	require.Error(t, err)
	var ce *Error
	require.True(t, errors.As(err, &ce), "expected *compose.Error, got %T", err)
	return ce
}

func local(ce *Error, p PackedSpan) source.Span {
	return source.Span{Start: p.Start&SpanMask - ce.Source.Offset, End: p.End&SpanMask - ce.Source.Offset}
}

func TestAddAndLinkStandalone(t *testing.T) {
	c := New()
	src := "fn main() -> f32 { return 1.0; }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Path: "file:///main.wgsl", Source: src}))
	assert.True(t, c.Contains("main"))

	m, err := c.Link("main")
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	assert.Equal(t, "main", m.Functions[0].Name)
	require.NoError(t, c.Validate("main"))
}

func TestNameFromDirective(t *testing.T) {
	c := New()
	src := "#define_import_path lib::util\nfn helper() -> i32 { return 2; }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Path: "file:///util.wgsl", Source: src}))
	assert.True(t, c.Contains("lib::util"))
}

func TestNoModuleName(t *testing.T) {
	c := New()
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Source: "fn f() {}"}))
	assert.Equal(t, NoModuleName, ce.Kind)
}

func TestImportRequiresComposedDependency(t *testing.T) {
	c := New()
	src := "#import lib::util\nfn main() {}\n"
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: src}))
	assert.Equal(t, ImportNotFound, ce.Kind)
	assert.Equal(t, uint32(strings.Index(src, "lib::util")), ce.Pos)
	assert.False(t, c.Contains("main"))
}

func TestQualifiedAndItemImports(t *testing.T) {
	c := New()
	util := "#define_import_path lib::util\nfn helper() -> f32 { return 2.0; }\nconst K: f32 = 1.0;\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Path: "u", Source: util}))

	cases := map[string]string{
		"qualified": "#import lib::util\nfn main() -> f32 { return util::helper() + lib::util::K; }\n",
		"alias":     "#import lib::util as u\nfn main() -> f32 { return u::helper(); }\n",
		"items":     "#import lib::util::{helper, K as k}\nfn main() -> f32 { return helper() + k; }\n",
		"item path": "#import lib::util::helper\nfn main() -> f32 { return helper(); }\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "main " + name, Source: src}))
			require.NoError(t, c.Validate("main "+name))
			assert.Equal(t, []string{"lib::util"}, c.Imports("main "+name))
		})
	}
}

func TestLastSegmentQualifies(t *testing.T) {
	assert.Equal(t, "util", lastSegment("lib::util"))
	assert.Equal(t, "c", lastSegment("a::b::c"))
	assert.Equal(t, "lib", lastSegment("lib"))

	c := New()
	util := "#define_import_path lib::util\nfn helper() -> f32 { return 2.0; }\nconst K: f32 = 1.0;\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Path: "u", Source: util}))
	src := "#import lib::util\nfn main() -> f32 { return util::helper() * util::K; }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "m", Source: src}))
	require.NoError(t, c.Validate("m"))

	bad := "#import lib::util\nfn main() -> f32 { return utl::helper(); }\n"
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "typo", Source: bad}))
	assert.Contains(t, ce.Message, "unknown module 'utl'")
}

func TestQuotedImportIsGlob(t *testing.T) {
	c := New()
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "shared/common.wgsl", Source: "fn one() -> i32 { return 1; }\n"}))
	src := "#import \"shared/common.wgsl\"\nfn main() -> i32 { return one(); }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: src}))
	require.NoError(t, c.Validate("main"))
}

func TestMissingImportItem(t *testing.T) {
	c := New()
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "lib", Source: "fn a() {}\n"}))
	src := "#import lib::{a, b}\nfn main() {}\n"
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: src}))
	assert.Equal(t, HeaderValidationError, ce.Kind)
	require.Len(t, ce.Labels, 1)
	sp := local(ce, ce.Labels[0].Span)
	assert.Equal(t, "b", src[sp.Start:sp.End])
}

func TestRedirectError(t *testing.T) {
	c := New()
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "a", Source: "fn f() {}\n"}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "b", Source: "fn f() {}\n"}))
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: "#import a::{f}\n#import b::{f}\n"}))
	assert.Equal(t, RedirectError, ce.Kind)
}

func TestParseErrorLabelsPointIntoOwnSource(t *testing.T) {
	c := New()
	dep := "fn helper() -> i32 { return 1; }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "dep", Source: dep}))
	src := "#import dep\nfn main() { let x = ; }\n"
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: src}))
	assert.Equal(t, ParseError, ce.Kind)
	assert.Equal(t, uint32(len(dep)+1), ce.Source.Offset)
	require.NotEmpty(t, ce.Labels)
	tag, _ := Unpack(ce.Labels[0].Span.Start)
	assert.Equal(t, uint32(2), tag)
	sp := local(ce, ce.Labels[0].Span)
	assert.Equal(t, uint32(strings.Index(src, ";")), sp.Start)
}

func TestUndefinedNameIsStructural(t *testing.T) {
	c := New()
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Source: "fn main() -> f32 { return missing; }"}))
	assert.Equal(t, ParseError, ce.Kind)
	assert.True(t, ce.Kind.Structural())
	assert.False(t, c.Contains("main"))
}

func TestReturnMismatchIsSemantic(t *testing.T) {
	c := New()
	src := "fn f() -> f32 { return 1; }"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "f", Source: src}))
	_, err := c.Link("f")
	require.NoError(t, err)

	ce := composeErr(t, c.Validate("f"))
	assert.Equal(t, ShaderValidationError, ce.Kind)
	require.Len(t, ce.Labels, 2)
	assert.Equal(t, "return 1;", src[local(ce, ce.Labels[0].Span).Start:local(ce, ce.Labels[0].Span).End])
	assert.Equal(t, "1", src[local(ce, ce.Labels[1].Span).Start:local(ce, ce.Labels[1].Span).End])
}

func TestValidateReportsDependencyFirst(t *testing.T) {
	c := New()
	dep := "fn bad() -> f32 { return true; }\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "dep", Path: "dep.wgsl", Source: dep}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Path: "main.wgsl", Source: "#import dep\nfn main() -> i32 { return 1.0; }\n"}))

	ce := composeErr(t, c.Validate("main"))
	assert.Equal(t, "dep", ce.Source.Name)
	assert.Equal(t, "dep.wgsl", ce.Source.Path)
	assert.Equal(t, uint32(0), ce.Source.Offset)
}

func TestRemoveCascades(t *testing.T) {
	c := New()
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "a", Source: "fn a() {}\n"}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "b", Source: "#import a\nfn b() { a::a(); }\n"}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "c", Source: "#import b\nfn c() { b::b(); }\n"}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "other", Source: "fn o() {}\n"}))

	c.Remove("a")
	assert.Equal(t, []string{"other"}, c.Names())
}

func TestReaddIsIdempotent(t *testing.T) {
	c := New()
	desc := ModuleDescriptor{Name: "a", Path: "a.wgsl", Source: "fn a() -> i32 { return 1; }\n"}
	require.NoError(t, c.AddComposableModule(desc))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "b", Source: "#import a\n"}))
	first, err := c.Link("a")
	require.NoError(t, err)

	require.NoError(t, c.AddComposableModule(desc))
	assert.True(t, c.Contains("b"), "unchanged re-add must keep dependents")
	second, err := c.Link("a")
	require.NoError(t, err)
	assert.Same(t, first, second)

	desc.Source += "fn extra() {}\n"
	require.NoError(t, c.AddComposableModule(desc))
	assert.False(t, c.Contains("b"), "changed re-add drops dependents")
}

func TestDecorationAndReservedIdentifiers(t *testing.T) {
	c := New()
	src := "fn fooX_wgslsp_mod_Xbar() {}"
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "m", Source: src}))
	assert.Equal(t, DecorationInSource, ce.Kind)
	assert.Equal(t, "X_wgslsp_mod_X", src[ce.Range.Start:ce.Range.End])

	src = "fn __hidden() {}"
	ce = composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "m", Source: src}))
	assert.Equal(t, InvalidIdentifier, ce.Kind)
	assert.Equal(t, "__hidden", src[local(ce, ce.At).Start:local(ce, ce.At).End])
}

func TestDefineOnlyInTopModule(t *testing.T) {
	c := New()
	dep := "#define FAST\nfn f() {}\n"
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "dep", Path: "dep.wgsl", Source: dep}))
	ce := composeErr(t, c.AddComposableModule(ModuleDescriptor{Name: "main", Path: "main.wgsl", Source: "#import dep\n"}))
	assert.Equal(t, DefineInModule, ce.Kind)
	assert.Equal(t, "dep.wgsl", ce.Source.Path)
	assert.Equal(t, uint32(strings.Index(dep, "FAST")), ce.Pos)
}

func TestGlobalShaderDefsReset(t *testing.T) {
	c := New(WithShaderDefs(map[string]ShaderDefValue{"A": BoolDef(true)}))
	require.NoError(t, c.AddComposableModule(ModuleDescriptor{Name: "m", Source: "fn f() {}\n"}))
	c.SetShaderDefs(map[string]ShaderDefValue{"A": BoolDef(true)})
	assert.True(t, c.Contains("m"))
	c.SetShaderDefs(map[string]ShaderDefValue{"A": BoolDef(false)})
	assert.False(t, c.Contains("m"))
}

func TestLinkUnknownModule(t *testing.T) {
	_, err := New().Link("nope")
	assert.Equal(t, BackendError, composeErr(t, err).Kind)
}

func TestPackRoundTrip(t *testing.T) {
	for _, tc := range []struct{ tag, off uint32 }{{1, 0}, {2, 17}, {9, MaxUnitLen}} {
		tag, off := Unpack(Pack(tc.tag, tc.off))
		assert.Equal(t, tc.tag, tag)
		assert.Equal(t, tc.off, off)
	}
}
