package trace

import (
	"io"
	"sync"
)

// Ring keeps the most recent events in memory. At LevelCrash it keeps every
// scope, so a panic dump shows what led to it without a stream running.
type Ring struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
	level  Level
}

// NewRing keeps up to size events; a non-positive size means 4096.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = 4096
	}
	return &Ring{buf: make([]Event, size), level: level}
}

func (r *Ring) Wants(scope Scope) bool {
	return r.level == LevelCrash || r.level.covers(scope)
}

func (r *Ring) Record(ev Event) {
	r.mu.Lock()
	r.buf[r.next] = ev
	r.next++
	if r.next == len(r.buf) {
		r.next, r.filled = 0, true
	}
	r.mu.Unlock()
}

func (r *Ring) Close() error { return nil }

// Events returns the kept events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filled {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// WriteText writes the kept events one per line.
func (r *Ring) WriteText(w io.Writer) error {
	for _, ev := range r.Events() {
		if _, err := w.Write(Encode(ev, FormatText)); err != nil {
			return err
		}
	}
	return nil
}
