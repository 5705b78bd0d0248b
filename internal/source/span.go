package source

import "strconv"

// Span is a half-open byte range [Start, End) inside one text snapshot,
// or inside a composed unit buffer before diagmap rebases it.
type Span struct {
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool { return o.Start >= s.Start && o.End <= s.End }

// Cover returns the smallest span holding both s and o.
func (s Span) Cover(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

func (s Span) String() string {
	return strconv.FormatUint(uint64(s.Start), 10) + ".." + strconv.FormatUint(uint64(s.End), 10)
}
