package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgslsp/internal/cache"
	"wgslsp/internal/compose"
	"wgslsp/internal/source"
	"wgslsp/internal/ui"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	return dir
}

var tree = map[string]string{
	"lib/math.wgsl": "#define_import_path lib::math\nfn twice(x: f32) -> f32 { return x * 2.0; }\n",
	"main.wgsl":     "#import lib::math\nfn main() -> f32 { return lib::math::twice(1.0); }\n",
	"broken.wgsl":   "#import lib::nothing_here\n",
}

func TestRunReportsOnlyFailingFiles(t *testing.T) {
	dir := writeTree(t, tree)
	res, err := Run(context.Background(), Options{Roots: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Checked)
	require.Len(t, res.Files, 1)
	assert.Equal(t, source.LocationFromPath(filepath.Join(dir, "broken.wgsl")), res.Files[0].Location)
	assert.Equal(t, 1, res.Errors())
}

func TestRunValidatesDependenciesFirst(t *testing.T) {
	dir := writeTree(t, tree)
	events := make(chan ui.Event, 64)
	_, err := Run(context.Background(), Options{Roots: []string{dir}, Progress: events})
	require.NoError(t, err)
	close(events)

	var validated []string
	for ev := range events {
		if ev.Stage == ui.StageValidate && ev.Status == ui.StatusWorking {
			validated = append(validated, filepath.Base(ev.File))
		}
	}
	require.Len(t, validated, 3)
	lib := indexOf(validated, "math.wgsl")
	main := indexOf(validated, "main.wgsl")
	assert.Less(t, lib, main)
}

func TestRunStopsLoadingWhenCanceled(t *testing.T) {
	dir := writeTree(t, tree)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan ui.Event)
	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, Options{Roots: []string{dir}, Progress: events})
		done <- err
	}()

	first := <-events
	assert.Equal(t, ui.StageLoad, first.Stage)
	assert.Equal(t, ui.StatusDone, first.Status)
	cancel()
	for {
		select {
		case ev := <-events:
			assert.NotEqual(t, ui.StageValidate, ev.Stage)
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
			return
		}
	}
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

func TestRunUsesDiskCache(t *testing.T) {
	dir := writeTree(t, tree)
	dc, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	first, err := Run(context.Background(), Options{Roots: []string{dir}, Cache: dc})
	require.NoError(t, err)
	assert.Zero(t, first.CacheHits)

	second, err := Run(context.Background(), Options{Roots: []string{dir}, Cache: dc})
	require.NoError(t, err)
	assert.Equal(t, 3, second.CacheHits)
	assert.Equal(t, first.Files, second.Files)

	// другие shader defs дают другой ключ
	third, err := Run(context.Background(), Options{
		Roots:      []string{dir},
		Cache:      dc,
		ShaderDefs: map[string]compose.ShaderDefValue{"FAST": compose.BoolDef(true)},
	})
	require.NoError(t, err)
	assert.Zero(t, third.CacheHits)
}

func TestEditedDependencyMissesCache(t *testing.T) {
	dir := writeTree(t, tree)
	dc, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	_, err = Run(context.Background(), Options{Roots: []string{dir}, Cache: dc})
	require.NoError(t, err)

	lib := filepath.Join(dir, "lib", "math.wgsl")
	require.NoError(t, os.WriteFile(lib, []byte("#define_import_path lib::math\nfn twice(x: f32) -> f32 { return y; }\n"), 0o644))

	res, err := Run(context.Background(), Options{Roots: []string{dir}, Cache: dc})
	require.NoError(t, err)
	// только broken.wgsl не зависит от lib::math
	assert.Equal(t, 1, res.CacheHits)
	assert.Equal(t, 3, res.Errors())
}
