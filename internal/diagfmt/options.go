package diagfmt

import (
	"path/filepath"
	"strings"

	"wgslsp/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto is relative under BaseDir and absolute elsewhere.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строк контекста перед строкой диагностики
	PathMode PathMode
	BaseDir  string
	// Encoding is the unit of the diagnostic ranges.
	Encoding  source.Encoding
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода, 0 - без ограничений
	IncludeNotes bool
}

func formatPath(loc source.Location, mode PathMode, base string) string {
	path := loc.Path()
	if path == "" {
		return string(loc)
	}
	switch mode {
	case PathModeAbsolute:
		return path
	case PathModeBasename:
		return filepath.Base(path)
	}
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
