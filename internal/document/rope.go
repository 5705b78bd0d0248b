package document

import (
	"strings"
	"unicode/utf8"

	"wgslsp/internal/source"
)

// maxChunk bounds the size of a single rope leaf. Edits rebuild only the
// leaves they touch, so typing into a large file stays proportional to the
// chunk size rather than the file size.
const maxChunk = 1024

type chunk struct {
	text  string
	lines int // number of '\n' in text
}

func newChunk(s string) chunk {
	return chunk{text: s, lines: strings.Count(s, "\n")}
}

// Rope is a chunked text buffer tuned for small range replacements.
type Rope struct {
	chunks []chunk
	size   int
}

// NewRope builds a rope holding s.
func NewRope(s string) *Rope {
	r := &Rope{}
	r.chunks = split(s)
	r.size = len(s)
	return r
}

// split cuts s into leaves no longer than maxChunk, always on rune boundaries.
func split(s string) []chunk {
	if s == "" {
		return nil
	}
	out := make([]chunk, 0, len(s)/maxChunk+1)
	for len(s) > maxChunk {
		cut := maxChunk
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxChunk
		}
		out = append(out, newChunk(s[:cut]))
		s = s[cut:]
	}
	return append(out, newChunk(s))
}

// Len returns the byte length of the text.
func (r *Rope) Len() int { return r.size }

// String materialises the whole text.
func (r *Rope) String() string {
	var b strings.Builder
	b.Grow(r.size)
	for _, c := range r.chunks {
		b.WriteString(c.text)
	}
	return b.String()
}

// locate returns the chunk index containing byte offset off and the offset
// inside that chunk. An offset equal to Len maps past the last chunk.
func (r *Rope) locate(off int) (idx, inner int) {
	for i, c := range r.chunks {
		if off < len(c.text) {
			return i, off
		}
		off -= len(c.text)
	}
	return len(r.chunks), 0
}

// Replace swaps the bytes in [start, end) for text. Out-of-range bounds are
// clamped.
func (r *Rope) Replace(start, end int, text string) {
	start = clamp(start, 0, r.size)
	end = clamp(end, start, r.size)

	first, firstInner := r.locate(start)
	last, lastInner := r.locate(end)

	var b strings.Builder
	if first < len(r.chunks) {
		b.WriteString(r.chunks[first].text[:firstInner])
	}
	b.WriteString(text)
	tailEnd := last
	if last < len(r.chunks) {
		b.WriteString(r.chunks[last].text[lastInner:])
		tailEnd = last + 1
	}

	replacement := split(b.String())
	next := make([]chunk, 0, len(r.chunks)-(tailEnd-first)+len(replacement))
	next = append(next, r.chunks[:first]...)
	next = append(next, replacement...)
	next = append(next, r.chunks[tailEnd:]...)
	r.chunks = next
	r.size = r.size - (end - start) + len(text)
}

// lineStart returns the byte offset where zero-based line begins, or -1 when
// the rope has fewer lines.
func (r *Rope) lineStart(line int) int {
	if line == 0 {
		return 0
	}
	off := 0
	for _, c := range r.chunks {
		if line > c.lines {
			line -= c.lines
			off += len(c.text)
			continue
		}
		for i := 0; i < len(c.text); i++ {
			if c.text[i] == '\n' {
				line--
				if line == 0 {
					return off + i + 1
				}
			}
		}
	}
	return -1
}

// lineText returns the content of the line starting at off without its break.
func (r *Rope) lineText(off int) string {
	idx, inner := r.locate(off)
	var b strings.Builder
	for ; idx < len(r.chunks); idx++ {
		text := r.chunks[idx].text[inner:]
		inner = 0
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			b.WriteString(text[:nl])
			break
		}
		b.WriteString(text)
	}
	return b.String()
}

// OffsetAt resolves a protocol position against the current text. Characters
// past the end of a line clamp to the line end; lines past the end clamp to
// the end of the text.
func (r *Rope) OffsetAt(pos source.Position, enc source.Encoding) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	start := r.lineStart(pos.Line)
	if start < 0 {
		return r.size
	}
	line := source.NewText(r.lineText(start))
	return start + int(line.OffsetAt(source.Position{Character: pos.Character}, enc))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
