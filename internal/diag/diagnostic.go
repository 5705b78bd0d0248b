package diag

import (
	"wgslsp/internal/source"
)

// Severity orders findings; higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the lower-case name used in CLI and JSON output.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

// Note is a secondary label. An empty Msg marks a span without comment.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a finding of the shader front end. Spans are offsets into
// the buffer that was handed to the lexer.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Spans returns the primary span followed by every note span.
func (d Diagnostic) Spans() []source.Span {
	out := make([]source.Span, 0, len(d.Notes)+1)
	out = append(out, d.Primary)
	for _, n := range d.Notes {
		out = append(out, n.Span)
	}
	return out
}
