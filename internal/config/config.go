// Package config loads wgslsp.toml and merges it with the options an editor
// sends at initialization.
package config

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"go.trai.ch/zerr"

	"wgslsp/internal/compose"
	"wgslsp/internal/project"
	"wgslsp/internal/source"
)

// ErrUnknownKey is returned for keys wgslsp.toml does not define.
var ErrUnknownKey = zerr.New("unknown config key")

type Server struct {
	Validate         bool     `toml:"validate"`
	PositionEncoding string   `toml:"position_encoding"`
	LogLevel         string   `toml:"log_level"`
	Extensions       []string `toml:"extensions"`
	IncludePaths     []string `toml:"include_paths"`
	TokenCacheSize   int      `toml:"token_cache_size"`
	Watch            bool     `toml:"watch"`
}

type Config struct {
	Server     Server         `toml:"server"`
	ShaderDefs map[string]any `toml:"shader_defs"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

func Default() Config {
	return Config{
		Server: Server{
			Validate:         true,
			PositionEncoding: "auto",
			LogLevel:         "info",
			Extensions:       slices.Clone(project.DefaultExtensions),
			TokenCacheSize:   256,
			Watch:            true,
		},
		ShaderDefs: map[string]any{},
	}
}

// Load finds wgslsp.toml above startDir and decodes it over the defaults.
// Without a config file the defaults are returned.
func Load(startDir string) (Config, error) {
	path, ok, err := project.FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, zerr.With(zerr.Wrap(err, "parse config"), "path", path)
	}
	if err := checkUndecoded(meta); err != nil {
		return Config{}, zerr.With(err, "path", path)
	}
	cfg.Path = path
	return cfg, cfg.validate()
}

// Parse decodes config text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, zerr.Wrap(err, "parse config")
	}
	if err := checkUndecoded(meta); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func checkUndecoded(meta toml.MetaData) error {
	var unknown []string
	for _, key := range meta.Undecoded() {
		// [shader_defs] is a free-form table.
		if len(key) > 0 && key[0] == "shader_defs" {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) > 0 {
		return zerr.With(zerr.Wrap(ErrUnknownKey, "wgslsp.toml"), "keys", strings.Join(unknown, ", "))
	}
	return nil
}

func (c Config) validate() error {
	if _, err := c.Defs(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return zerr.With(zerr.Wrap(err, "server.log_level"), "value", c.Server.LogLevel)
	}
	if c.Server.PositionEncoding != "auto" {
		if _, ok := source.ParseEncoding(c.Server.PositionEncoding); !ok {
			return zerr.With(zerr.New("server.position_encoding: unsupported encoding"), "value", c.Server.PositionEncoding)
		}
	}
	return nil
}

// Defs converts [shader_defs] for the composer.
func (c Config) Defs() (map[string]compose.ShaderDefValue, error) {
	out := make(map[string]compose.ShaderDefValue, len(c.ShaderDefs))
	for _, name := range slices.Sorted(maps.Keys(c.ShaderDefs)) {
		v, err := compose.DefFromAny(c.ShaderDefs[name])
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "shader_defs"), "name", name)
		}
		out[name] = v
	}
	return out, nil
}

// Level returns the configured log level, info when it does not parse.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Encoding returns the forced position encoding. ok is false for "auto",
// which leaves the choice to negotiation.
func (c Config) Encoding() (enc source.Encoding, ok bool) {
	if c.Server.PositionEncoding == "auto" || c.Server.PositionEncoding == "" {
		return source.UTF16, false
	}
	return source.ParseEncoding(c.Server.PositionEncoding)
}

// Roots returns the directories to scan: root plus the include paths,
// relative ones resolved against the config file's directory (or root).
func (c Config) Roots(root string) []string {
	base := root
	if c.Path != "" {
		base = filepath.Dir(c.Path)
	}
	roots := []string{root}
	for _, p := range c.Server.IncludePaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if !slices.Contains(roots, p) {
			roots = append(roots, p)
		}
	}
	return roots
}
