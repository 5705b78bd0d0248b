package source

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLocation canonicalises a document identifier so that the same file
// always maps to the same key regardless of how the client spelled it
// (percent-encoding, drive letter case, NFC vs NFD file names, relative
// segments). Bare paths are accepted and turned into file URIs.
func NormalizeLocation(raw string) Location {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err == nil && parsed.Scheme != "" && parsed.Scheme != "file" && len(parsed.Scheme) > 1 {
		return Location(raw)
	}
	path := uriToPath(raw)
	if path == "" {
		return Location(raw)
	}
	return LocationFromPath(path)
}

// LocationFromPath builds the canonical location for a filesystem path.
func LocationFromPath(path string) Location {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = norm.NFC.String(filepath.Clean(path))
	slashed := filepath.ToSlash(path)
	if len(slashed) >= 2 && slashed[1] == ':' {
		// C:/x -> /c:/x
		slashed = "/" + strings.ToLower(slashed[:1]) + slashed[1:]
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return Location(u.String())
}

// Path returns the filesystem path of a file location, or "" for other schemes.
func (l Location) Path() string {
	return uriToPath(string(l))
}

// IsFile reports whether the location refers to a file on disk.
func (l Location) IsFile() bool {
	return strings.HasPrefix(string(l), "file:")
}

func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" && len(parsed.Scheme) > 1 {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" || len(parsed.Scheme) == 1 {
		path = uri
	} else if unescaped, err := url.PathUnescape(parsed.EscapedPath()); err == nil {
		path = unescaped
	}
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
