package trace

import (
	"io"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// Tracer records span events. Implementations must be safe for concurrent
// use: `wgslsp check` scans on several goroutines.
type Tracer interface {
	Wants(scope Scope) bool
	Record(ev Event)
	Close() error
}

type nop struct{}

func (nop) Wants(Scope) bool { return false }
func (nop) Record(Event)     {}
func (nop) Close() error     { return nil }

// Nop records nothing.
var Nop Tracer = nop{}

// Mode picks where events go.
type Mode uint8

const (
	ModeRing   Mode = iota + 1 // in memory, dumped on panic
	ModeStream                 // written as they happen
	ModeBoth
)

// ParseMode accepts ring, stream and both.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ring":
		return ModeRing, nil
	case "stream":
		return ModeStream, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeRing, zerr.With(zerr.New("invalid trace mode"), "mode", s)
}

// Config describes the tracer built by New.
type Config struct {
	Level    Level
	Mode     Mode
	Format   Format
	Output   io.Writer // overrides Path
	Path     string    // "" or "-" is stderr
	RingSize int       // default 4096
}

// New builds the tracer cfg describes. The stream output file, if any, is
// closed by the tracer's Close.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if strings.HasSuffix(cfg.Path, ".ndjson") || strings.HasSuffix(cfg.Path, ".json") {
			cfg.Format = FormatNDJSON
		}
	}
	if cfg.Mode == ModeRing {
		return NewRing(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, zerr.With(zerr.New("unknown trace mode"), "mode", int(cfg.Mode))
	}

	w, closer := cfg.Output, io.Closer(nil)
	if w == nil {
		switch cfg.Path {
		case "", "-":
			w = os.Stderr
		default:
			f, err := os.Create(cfg.Path)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "open trace output"), "path", cfg.Path)
			}
			w, closer = f, f
		}
	}
	stream := &Stream{w: w, closer: closer, level: cfg.Level, format: cfg.Format}
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return Tee(stream, NewRing(cfg.RingSize, cfg.Level)), nil
}

// Dump writes the ring kept by t, if it keeps one, as text.
func Dump(t Tracer, w io.Writer) error {
	switch tr := t.(type) {
	case *Ring:
		return tr.WriteText(w)
	case tee:
		for _, sub := range tr {
			if r, ok := sub.(*Ring); ok {
				return r.WriteText(w)
			}
		}
	}
	return nil
}

type tee []Tracer

// Tee records every event into each tracer that wants its scope.
func Tee(tracers ...Tracer) Tracer { return tee(tracers) }

func (t tee) Wants(scope Scope) bool {
	for _, tr := range t {
		if tr.Wants(scope) {
			return true
		}
	}
	return false
}

func (t tee) Record(ev Event) {
	for _, tr := range t {
		if tr.Wants(ev.Scope) {
			tr.Record(ev)
		}
	}
}

func (t tee) Close() error {
	var first error
	for _, tr := range t {
		if err := tr.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
