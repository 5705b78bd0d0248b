package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"wgslsp/internal/compose"
	"wgslsp/internal/source"
)

const sample = `
[server]
validate = false
position_encoding = "utf-32"
log_level = "debug"
include_paths = ["../shared", "/abs/lib"]
token_cache_size = 64

[shader_defs]
MAX_LIGHTS = 4
USE_SHADOWS = true
QUALITY = "2u"
`

func TestParse(t *testing.T) {
	cfg, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Validate {
		t.Errorf("validate should be false")
	}
	if !cfg.Server.Watch {
		t.Errorf("watch should keep its default")
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("level = %v", cfg.Level())
	}
	if enc, ok := cfg.Encoding(); !ok || enc != source.UTF32 {
		t.Errorf("encoding = %v, %v", enc, ok)
	}

	defs, err := cfg.Defs()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]compose.ShaderDefValue{
		"MAX_LIGHTS":  compose.IntDef(4),
		"USE_SHADOWS": compose.BoolDef(true),
		"QUALITY":     compose.UintDef(2),
	}
	for k, v := range want {
		if defs[k] != v {
			t.Errorf("def %s = %v, want %v", k, defs[k], v)
		}
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse("[server]\nvalidat = true\n")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("err = %v, want an unknown key error", err)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for name, text := range map[string]string{
		"encoding": "[server]\nposition_encoding = \"ebcdic\"\n",
		"level":    "[server]\nlog_level = \"loud\"\n",
		"def":      "[shader_defs]\nX = 1.5\n",
	} {
		if _, err := Parse(text); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadWalksUpAndResolvesIncludes(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "wgslsp.toml"), []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "shaders")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	roots := cfg.Roots(sub)
	want := []string{sub, filepath.Join(filepath.Dir(root), "shared"), "/abs/lib"}
	if len(roots) != len(want) {
		t.Fatalf("roots = %v, want %v", roots, want)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || !cfg.Server.Validate || cfg.Server.TokenCacheSize != 256 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestApplyInitOptions(t *testing.T) {
	cfg, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	on := true
	err = cfg.Apply(InitOptions{
		IncludePaths: []string{"/editor/lib"},
		ShaderDefs:   map[string]any{"MAX_LIGHTS": float64(8)},
		Validate:     &on,
	})
	if err != nil {
		t.Fatal(err)
	}
	defs, _ := cfg.Defs()
	if defs["MAX_LIGHTS"] != compose.IntDef(8) || defs["USE_SHADOWS"] != compose.BoolDef(true) {
		t.Fatalf("defs = %v", defs)
	}
	if !cfg.Server.Validate || cfg.Server.IncludePaths[len(cfg.Server.IncludePaths)-1] != "/editor/lib" {
		t.Fatalf("server = %+v", cfg.Server)
	}
}
