package compose

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wgslsp/internal/source"
)

// ImportItem is one entry of an `#import path::{...}` list.
type ImportItem struct {
	Name  string
	Alias string
	Span  source.Span
}

// ImportDef is one module imported by an `#import` directive.
type ImportDef struct {
	// Module is the module name with quotes removed.
	Module string
	// Span covers the module name as written, without quotes.
	Span   source.Span
	Quoted bool
	Alias  string
	Items  []ImportItem
}

// ParseImportList parses the text following `#import`. off is the offset of
// text inside the module source and is added to every recorded span.
// On malformed input the definitions parsed so far are returned together
// with ok=false and the offset of the offending character.
func ParseImportList(text string, off uint32) (defs []ImportDef, bad uint32, ok bool) {
	sc := importScanner{s: text, off: off}
	for {
		sc.ws()
		def, good := sc.spec()
		if !good {
			return defs, sc.pos(), false
		}
		defs = append(defs, def)
		sc.ws()
		if sc.eat(",") {
			continue
		}
		if sc.eol() {
			return defs, 0, true
		}
		return defs, sc.pos(), false
	}
}

type importScanner struct {
	s   string
	i   int
	off uint32
}

func (sc *importScanner) pos() uint32 {
	return sc.off + source.SafeUint32(sc.i)
}

func (sc *importScanner) span(from int) source.Span {
	return source.Span{Start: sc.off + source.SafeUint32(from), End: sc.pos()}
}

func (sc *importScanner) ws() {
	for sc.i < len(sc.s) && (sc.s[sc.i] == ' ' || sc.s[sc.i] == '\t') {
		sc.i++
	}
}

// eol принимает конец строки и хвостовой `//` комментарий.
func (sc *importScanner) eol() bool {
	rest := strings.TrimRight(sc.s[sc.i:], " \t\r")
	return rest == "" || strings.HasPrefix(rest, "//")
}

func (sc *importScanner) eat(lit string) bool {
	if strings.HasPrefix(sc.s[sc.i:], lit) {
		sc.i += len(lit)
		return true
	}
	return false
}

func (sc *importScanner) ident() (string, bool) {
	start := sc.i
	for sc.i < len(sc.s) {
		r, size := utf8.DecodeRuneInString(sc.s[sc.i:])
		if r == '_' || unicode.IsLetter(r) || (sc.i > start && unicode.IsDigit(r)) {
			sc.i += size
			continue
		}
		break
	}
	return sc.s[start:sc.i], sc.i > start
}

// keyword reports whether the scanner is at the whole word kw.
func (sc *importScanner) keyword(kw string) bool {
	save := sc.i
	word, ok := sc.ident()
	if ok && word == kw {
		return true
	}
	sc.i = save
	return false
}

func (sc *importScanner) spec() (ImportDef, bool) {
	var def ImportDef
	if sc.eat(`"`) {
		start := sc.i
		end := strings.IndexByte(sc.s[sc.i:], '"')
		if end < 0 {
			return def, false
		}
		sc.i += end
		def.Module, def.Span, def.Quoted = sc.s[start:sc.i], sc.span(start), true
		sc.i++
		return def, sc.alias(&def)
	}
	start := sc.i
	var segs []string
	for {
		seg, ok := sc.ident()
		if !ok {
			return def, false
		}
		segs = append(segs, seg)
		end := sc.i
		if !sc.eat("::") {
			def.Module, def.Span = strings.Join(segs, "::"), sc.span(start)
			return def, sc.alias(&def)
		}
		save := sc.i
		sc.ws()
		if sc.eat("{") {
			def.Module = strings.Join(segs, "::")
			def.Span = source.Span{Start: sc.off + source.SafeUint32(start), End: sc.off + source.SafeUint32(end)}
			return def, sc.items(&def)
		}
		sc.i = save
	}
}

func (sc *importScanner) alias(def *ImportDef) bool {
	save := sc.i
	sc.ws()
	if !sc.keyword("as") {
		sc.i = save
		return true
	}
	sc.ws()
	name, ok := sc.ident()
	if !ok {
		return false
	}
	def.Alias = name
	return true
}

func (sc *importScanner) items(def *ImportDef) bool {
	for {
		sc.ws()
		if sc.eat("}") {
			return true
		}
		start := sc.i
		name, ok := sc.ident()
		if !ok {
			return false
		}
		item := ImportItem{Name: name, Span: sc.span(start)}
		save := sc.i
		sc.ws()
		if sc.keyword("as") {
			sc.ws()
			if item.Alias, ok = sc.ident(); !ok {
				return false
			}
		} else {
			sc.i = save
		}
		def.Items = append(def.Items, item)
		sc.ws()
		if sc.eat(",") {
			continue
		}
		if sc.eat("}") {
			return true
		}
		return false
	}
}
