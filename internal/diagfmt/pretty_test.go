package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgslsp/internal/diag"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/source"
)

const mainLoc = source.Location("file:///work/shaders/main.wgsl")

func rng(l1, c1, l2, c2 int) source.Range {
	return source.Range{
		Start: source.Position{Line: l1, Character: c1},
		End:   source.Position{Line: l2, Character: c2},
	}
}

func returnMismatch() File {
	return File{
		Location: mainLoc,
		Text:     "fn f() -> f32 { return 1; }\n",
		Diagnostics: []diagmap.Diagnostic{{
			Range:    rng(0, 23, 0, 24),
			Severity: diag.SevError,
			Code:     diag.PrjShaderValidation,
			Message:  "expected f32, found i32",
			Related: []diagmap.Related{{
				Location: mainLoc,
				Range:    rng(0, 16, 0, 25),
				Message:  "in this return",
			}},
		}},
	}
}

func TestPrettyGolden(t *testing.T) {
	tests := []struct {
		name string
		file File
		opts PrettyOpts
	}{
		{
			name: "single",
			file: returnMismatch(),
			opts: PrettyOpts{BaseDir: "/work", ShowNotes: true},
		},
		{
			name: "context_tabs",
			file: File{
				Location: mainLoc,
				Text:     "fn g() {\n\tlet x: f32 = true;\n}\n",
				Diagnostics: []diagmap.Diagnostic{{
					Range:    rng(1, 14, 1, 18),
					Severity: diag.SevWarning,
					Message:  "mismatched types",
				}},
			},
			opts: PrettyOpts{Context: 1, PathMode: PathModeBasename},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Pretty(&buf, []File{tt.file}, tt.opts))
			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeAbsolute, "/work", "/work/shaders/main.wgsl"},
		{PathModeRelative, "/work", "shaders/main.wgsl"},
		{PathModeRelative, "/elsewhere", "../work/shaders/main.wgsl"},
		{PathModeAuto, "/elsewhere", "/work/shaders/main.wgsl"},
		{PathModeBasename, "", "main.wgsl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPath(mainLoc, tt.mode, tt.base), "mode %d base %s", tt.mode, tt.base)
	}
	assert.Equal(t, "untitled:1", formatPath("untitled:1", PathModeRelative, "/work"))
}

func TestWideCharactersShiftTheMarker(t *testing.T) {
	f := File{
		Location: mainLoc,
		Text:     "// 世界 x\n",
		Diagnostics: []diagmap.Diagnostic{{
			Range:    rng(0, 6, 0, 7),
			Severity: diag.SevInfo,
			Message:  "here",
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, []File{f}, PrettyOpts{PathMode: PathModeBasename, Encoding: source.UTF32}))
	// "// " is 3 columns, each ideograph 2, then a space: x sits at column 8.
	assert.Contains(t, buf.String(), "\n  | "+"        "+"^\n")
}

func TestJSON(t *testing.T) {
	files := []File{returnMismatch(), {Location: "file:///work/other.wgsl"}}
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, files, JSONOpts{BaseDir: "/work", IncludeNotes: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 1, out.Errors)
	require.Len(t, out.Diagnostics, 1)
	d := out.Diagnostics[0]
	assert.Equal(t, "PRJ5013", d.Code)
	assert.Equal(t, LocationJSON{File: "shaders/main.wgsl", StartLine: 1, StartCol: 24, EndLine: 1, EndCol: 25}, d.Location)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "in this return", d.Notes[0].Message)

	trimmed := BuildDiagnosticsOutput([]File{returnMismatch(), returnMismatch()}, JSONOpts{Max: 1})
	assert.Len(t, trimmed.Diagnostics, 1)
	assert.Equal(t, 2, trimmed.Count)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, []File{returnMismatch()}, 3, false))
	assert.Equal(t, "failed: 1 error, 0 warnings in 3 files\n", buf.String())

	buf.Reset()
	require.NoError(t, Summary(&buf, nil, 1, false))
	assert.Equal(t, "ok: 0 errors, 0 warnings in 1 file\n", buf.String())
}
