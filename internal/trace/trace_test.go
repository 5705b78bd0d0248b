package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopSpansRecordNothing(t *testing.T) {
	span := Begin(Nop, ScopeRequest, "validate").With("k", "v")
	assert.Zero(t, span.ID())
	assert.Zero(t, span.End(""))

	span = Begin(nil, ScopeRequest, "validate")
	assert.Zero(t, span.End(""))
}

func TestStreamRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelStage, FormatText)

	Begin(tr, ScopeStage, "check").With("module", "main").End("")
	Begin(tr, ScopeModule, "compose").End("")

	out := buf.String()
	assert.Contains(t, out, "> check")
	assert.Contains(t, out, "module=main")
	assert.NotContains(t, out, "compose")
}

func TestNDJSONByExtension(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelModule, Mode: ModeStream, Output: &buf, Path: "trace.ndjson"})
	require.NoError(t, err)

	Begin(tr, ScopeModule, "compose").With("module", "lib::math").End("cached")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"kind":"begin"`)
	assert.Contains(t, lines[1], `"note":"cached"`)
	assert.Contains(t, lines[1], `"attrs":{"module":"lib::math"}`)
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRing(2, LevelModule)
	for _, name := range []string{"a", "b", "c"} {
		Begin(r, ScopeRequest, name)
	}
	evs := r.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, "b", evs[0].Name)
	assert.Equal(t, "c", evs[1].Name)
}

func TestCrashRingKeepsEveryScope(t *testing.T) {
	var dump bytes.Buffer
	r := NewRing(16, LevelCrash)
	Begin(r, ScopeModule, "compose").End("")
	require.NoError(t, Dump(r, &dump))
	assert.Contains(t, dump.String(), "compose")
}

func TestDumpFindsRingInTee(t *testing.T) {
	var stream, dump bytes.Buffer
	tr, err := New(Config{Level: LevelRequest, Mode: ModeBoth, Output: &stream, Format: FormatText})
	require.NoError(t, err)

	Begin(tr, ScopeRequest, "textDocument/didOpen").End("")
	Begin(tr, ScopeStage, "link").End("")
	require.NoError(t, Dump(tr, &dump))
	assert.Contains(t, dump.String(), "textDocument/didOpen")
	assert.Contains(t, stream.String(), "textDocument/didOpen")
	assert.NotContains(t, stream.String(), "link")
	require.NoError(t, tr.Close())
}

func TestParse(t *testing.T) {
	lvl, err := ParseLevel("Stage")
	require.NoError(t, err)
	assert.Equal(t, LevelStage, lvl)
	assert.Equal(t, "stage", lvl.String())

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
	_, err = ParseFormat("chrome")
	assert.Error(t, err)
	_, err = ParseMode("file")
	assert.Error(t, err)
}
