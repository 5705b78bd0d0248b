package source

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestNormalizeLocationCanonicalisesFileURIs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}
	tests := []struct {
		name string
		raw  string
		want Location
	}{
		{"plain", "file:///tmp/a/b.wgsl", "file:///tmp/a/b.wgsl"},
		{"percent encoded", "file:///tmp/a%20dir/b.wgsl", "file:///tmp/a%20dir/b.wgsl"},
		{"dot segments", "file:///tmp/a/../a/./b.wgsl", "file:///tmp/a/b.wgsl"},
		{"bare path", "/tmp/a/b.wgsl", "file:///tmp/a/b.wgsl"},
		{"nfd name", "file:///tmp/cafe\u0301.wgsl", "file:///tmp/caf%C3%A9.wgsl"},
		{"other scheme kept", "untitled:Untitled-1", "untitled:Untitled-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLocation(tt.raw); got != tt.want {
				t.Fatalf("NormalizeLocation(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLocationPathRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaders", "common.wgsl")
	loc := LocationFromPath(path)
	if !loc.IsFile() {
		t.Fatalf("expected file location, got %q", loc)
	}
	if got := loc.Path(); got != filepath.Clean(path) {
		t.Fatalf("Path() = %q, want %q", got, path)
	}
	if NormalizeLocation(string(loc)) != loc {
		t.Fatalf("normalisation must be idempotent for %q", loc)
	}
}
