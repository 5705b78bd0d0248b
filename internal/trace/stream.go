package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// Format is the on-disk shape of streamed events.
type Format uint8

const (
	FormatAuto Format = iota // by output file extension
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto, text, ndjson and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, zerr.With(zerr.New("invalid trace format"), "format", s)
}

// Stream writes each event as soon as it is recorded.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format Format
}

// NewStream writes events of the scopes level covers to w.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Wants(scope Scope) bool { return s.level.covers(scope) }

func (s *Stream) Record(ev Event) {
	line := Encode(ev, s.format)
	s.mu.Lock()
	// ошибки записи трассы не должны ронять сервер
	_, _ = s.w.Write(line)
	s.mu.Unlock()
}

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

type jsonEvent struct {
	Time  string            `json:"time"`
	Seq   uint64            `json:"seq"`
	Kind  string            `json:"kind"`
	Scope string            `json:"scope"`
	Span  uint64            `json:"span"`
	Name  string            `json:"name"`
	Note  string            `json:"note,omitempty"`
	DurUS int64             `json:"dur_us,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Encode renders ev as one line, newline included.
func Encode(ev Event, format Format) []byte {
	if format == FormatNDJSON {
		je := jsonEvent{
			Time:  ev.At.Format("2006-01-02T15:04:05.000000Z07:00"),
			Seq:   ev.Seq,
			Kind:  ev.Kind.String(),
			Scope: ev.Scope.String(),
			Span:  ev.Span,
			Name:  ev.Name,
			Note:  ev.Note,
			DurUS: ev.Dur.Microseconds(),
		}
		if len(ev.Attrs) > 0 {
			je.Attrs = make(map[string]string, len(ev.Attrs))
			for _, a := range ev.Attrs {
				je.Attrs[a.Key] = a.Value
			}
		}
		data, err := json.Marshal(je)
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}

	// 15:04:05.000 > name   /   15:04:05.000 < name 1.2ms (note) key=value
	var sb strings.Builder
	sb.WriteString(ev.At.Format("15:04:05.000"))
	sb.WriteString(strings.Repeat("  ", int(ev.Scope)))
	if ev.Kind == KindBegin {
		sb.WriteString("> ")
		sb.WriteString(ev.Name)
	} else {
		fmt.Fprintf(&sb, "< %s %s", ev.Name, ev.Dur.Round(time.Microsecond))
	}
	if ev.Note != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Note)
	}
	for _, a := range ev.Attrs {
		fmt.Fprintf(&sb, " %s=%s", a.Key, a.Value)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
