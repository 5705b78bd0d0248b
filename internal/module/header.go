package module

import (
	"strings"

	"wgslsp/internal/compose"
	"wgslsp/internal/source"
)

// Import is one dependency named by an `#import` directive.
type Import struct {
	// Name is the module name with quotes removed.
	Name string
	// Span covers the name in the importing source.
	Span source.Span
}

// Header is what the module graph needs to know about a source file.
type Header struct {
	Name     string
	NameSpan source.Span
	// Explicit is false when the name is the location fallback.
	Explicit bool
	Imports  []Import
}

// ImportNames returns the dependency names in declaration order without
// duplicates.
func (h Header) ImportNames() []string {
	out := make([]string, 0, len(h.Imports))
	seen := make(map[string]bool, len(h.Imports))
	for _, imp := range h.Imports {
		if seen[imp.Name] {
			continue
		}
		seen[imp.Name] = true
		out = append(out, imp.Name)
	}
	return out
}

// Preprocess extracts the module name and the imported module names of a
// source. Without `#define_import_path` the location is the name. Imports
// inside conditional regions are included: which branch is active is only
// known to the composer. Malformed import directives contribute whatever
// parsed before the error.
func Preprocess(loc source.Location, text string) Header {
	h := Header{Name: loc.String()}
	for ls := 0; ls <= len(text); {
		le := strings.IndexByte(text[ls:], '\n')
		if le < 0 {
			le = len(text)
		} else {
			le += ls
		}
		directive(&h, text[ls:le], ls)
		ls = le + 1
	}
	return h
}

func directive(h *Header, line string, off int) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "#") {
		return
	}
	at := off + len(line) - len(trimmed) + 1
	body := trimmed[1:]
	word := body[:wordLen(body)]
	rest := body[len(word):]
	restAt := at + len(word)
	switch word {
	case "define_import_path":
		if h.Explicit {
			return
		}
		name := strings.TrimLeft(rest, " \t")
		start := restAt + len(rest) - len(name)
		if i := strings.Index(name, "//"); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimRight(name, " \t\r")
		if name == "" || strings.ContainsAny(name, " \t") {
			return
		}
		h.Name, h.Explicit = name, true
		h.NameSpan = source.Span{Start: source.SafeUint32(start), End: source.SafeUint32(start + len(name))}
	case "import":
		defs, _, _ := compose.ParseImportList(rest, source.SafeUint32(restAt))
		for _, d := range defs {
			h.Imports = append(h.Imports, Import{Name: d.Module, Span: d.Span})
		}
	}
}

func wordLen(s string) int {
	n := 0
	for n < len(s) && (s[n] == '_' || s[n] >= 'a' && s[n] <= 'z' || s[n] >= 'A' && s[n] <= 'Z') {
		n++
	}
	return n
}
