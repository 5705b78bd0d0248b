package compose

import "wgslsp/internal/source"

const (
	// SpanShift is the number of low bits holding the unit-buffer offset.
	SpanShift = 21
	// SpanMask selects the offset bits of a packed value.
	SpanMask = 1<<SpanShift - 1
	// MaxUnitLen is the largest unit buffer whose offsets fit a packed span.
	MaxUnitLen = SpanMask
)

// Pack encodes a unit-buffer offset under a segment tag.
func Pack(tag, off uint32) uint32 {
	return tag<<SpanShift | off&SpanMask
}

// Unpack splits a packed value into its tag and unit-buffer offset.
func Unpack(packed uint32) (tag, off uint32) {
	return packed >> SpanShift, packed & SpanMask
}

// PackSpan packs a span local to a segment that starts at base.
func PackSpan(tag, base uint32, sp source.Span) PackedSpan {
	return PackedSpan{Start: Pack(tag, base+sp.Start), End: Pack(tag, base+sp.End)}
}
