package version

import (
	"strings"
	"testing"
)

func TestCurrentReflectsOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def4567890"
	BuildDate = "2026-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != GitCommit || info.BuildDate != BuildDate {
		t.Fatalf("unexpected info: %+v", info)
	}
	plain := info.Pretty(false)
	for _, want := range []string{"wgslsp 1.2.3 (", "commit abc123def456\n", "built 2026-01-15T10:30:00Z"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Pretty(false) = %q, missing %q", plain, want)
		}
	}
}

func TestColorizeKeepsSuffix(t *testing.T) {
	out := colorize("0.1.0-dev")
	if !strings.HasSuffix(out, "-dev") || !strings.Contains(out, "\x1b[") {
		t.Fatalf("colorize = %q", out)
	}
	if colorize("nightly") != "nightly" {
		t.Fatal("non-semver versions must pass through")
	}
}
