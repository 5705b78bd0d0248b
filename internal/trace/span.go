package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq    atomic.Uint64
	spanID atomic.Uint64
)

// Kind tells the beginning of a span from its end.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
)

func (k Kind) String() string {
	if k == KindBegin {
		return "begin"
	}
	return "end"
}

// Attr is one key/value pair attached to the end of a span.
type Attr struct {
	Key   string
	Value string
}

// Event is what tracers record. Events of one span share Span.
type Event struct {
	At    time.Time
	Seq   uint64
	Kind  Kind
	Scope Scope
	Span  uint64
	Name  string
	Note  string
	Dur   time.Duration // only on KindEnd
	Attrs []Attr
}

// Span is an open unit of work. The zero-cost form returned for scopes the
// tracer does not want accepts every call and records nothing.
type Span struct {
	t       Tracer
	id      uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin opens a span on t. A nil tracer is treated as Nop.
func Begin(t Tracer, scope Scope, name string) *Span {
	if t == nil || !t.Wants(scope) {
		return &Span{}
	}
	s := &Span{t: t, id: spanID.Add(1), scope: scope, name: name, started: time.Now()}
	t.Record(Event{At: s.started, Seq: seq.Add(1), Kind: KindBegin, Scope: scope, Span: s.id, Name: name})
	return s
}

// With attaches an attribute that is recorded when the span ends.
func (s *Span) With(key, value string) *Span {
	if s.t != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End records the end of the span. Ending twice records twice.
func (s *Span) End(note string) time.Duration {
	if s.t == nil {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	s.t.Record(Event{
		At:    now,
		Seq:   seq.Add(1),
		Kind:  KindEnd,
		Scope: s.scope,
		Span:  s.id,
		Name:  s.name,
		Note:  note,
		Dur:   dur,
		Attrs: s.attrs,
	})
	return dur
}

// ID is 0 for spans that record nothing.
func (s *Span) ID() uint64 { return s.id }
