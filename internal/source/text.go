package source

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
)

const maxUint32 = ^uint32(0)

// Text is an immutable snapshot of a document together with its line index.
type Text struct {
	Content string
	lineIdx []uint32 // offsets of '\n'
}

// NewText builds the line index for content.
func NewText(content string) *Text {
	return &Text{Content: content, lineIdx: buildLineIndex(content)}
}

// SafeUint32 clamps n into the uint32 range.
func SafeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// Len returns the byte length of the snapshot.
func (t *Text) Len() uint32 {
	return SafeUint32(len(t.Content))
}

// LineCount returns the number of lines, counting a trailing empty line.
func (t *Text) LineCount() int {
	return len(t.lineIdx) + 1
}

func (t *Text) lineBounds(line int) (start, end uint32) {
	if line == 0 {
		start = 0
	} else {
		start = t.lineIdx[line-1] + 1
	}
	end = t.Len()
	if line < len(t.lineIdx) {
		end = t.lineIdx[line]
	}
	return start, end
}

// PositionAt converts a byte offset to a position. The line is the number of
// line breaks strictly before off; the character is counted in enc units from
// the start of that line. Offsets past the end clamp to the end.
func (t *Text) PositionAt(off uint32, enc Encoding) Position {
	if off > t.Len() {
		off = t.Len()
	}
	line := sort.Search(len(t.lineIdx), func(i int) bool { return t.lineIdx[i] >= off })
	start, _ := t.lineBounds(line)
	units := 0
	for i := start; i < off; {
		r, size := utf8.DecodeRuneInString(t.Content[i:])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		if i+SafeUint32(size) > off {
			break
		}
		units += enc.units(r, size)
		i += SafeUint32(size)
	}
	return Position{Line: line, Character: units}
}

// OffsetAt converts a position to a byte offset. Characters past the end of
// the line clamp to the line end; lines past the end clamp to the text end.
func (t *Text) OffsetAt(pos Position, enc Encoding) uint32 {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line >= t.LineCount() {
		return t.Len()
	}
	start, end := t.lineBounds(pos.Line)
	units := 0
	off := start
	for off < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(t.Content[off:end])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		need := enc.units(r, size)
		if units+need > pos.Character {
			break
		}
		units += need
		off += SafeUint32(size)
	}
	return off
}

// RangeOf converts a byte span into a protocol range.
func (t *Text) RangeOf(sp Span, enc Encoding) Range {
	return Range{
		Start: t.PositionAt(sp.Start, enc),
		End:   t.PositionAt(sp.End, enc),
	}
}

// Line returns the text of a zero-based line without its line break.
func (t *Text) Line(line int) string {
	if line < 0 || line >= t.LineCount() {
		return ""
	}
	start, end := t.lineBounds(line)
	return t.Content[start:end]
}
