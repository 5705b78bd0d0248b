package diag

import (
	"wgslsp/internal/source"
)

// Reporter receives findings from the lexer, parser and checker.
type Reporter interface {
	Report(d Diagnostic)
}

// Bag is a Reporter that keeps up to a limit of findings. Parser recovery
// tends to report the same token twice; repeats are dropped.
type Bag struct {
	items []Diagnostic
	limit int
	seen  map[bagKey]struct{}
}

type bagKey struct {
	code Code
	at   source.Span
	msg  string
}

// NewBag keeps at most limit findings; a non-positive limit keeps one.
func NewBag(limit int) *Bag {
	return &Bag{limit: max(limit, 1), seen: make(map[bagKey]struct{})}
}

func (b *Bag) Report(d Diagnostic) {
	if len(b.items) >= b.limit {
		return
	}
	key := bagKey{code: d.Code, at: d.Primary, msg: d.Message}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.items = append(b.items, d)
}

func (b *Bag) Len() int { return len(b.items) }

// Items is the bag's own slice, in report order.
func (b *Bag) Items() []Diagnostic { return b.items }

// First returns the error that starts earliest in the buffer. Composition
// stops at one error per module, and this is the one it reports.
func (b *Bag) First() (Diagnostic, bool) {
	var (
		best  Diagnostic
		found bool
	)
	for _, d := range b.items {
		if d.Severity == SevError && (!found || d.Primary.Start < best.Primary.Start) {
			best, found = d, true
		}
	}
	return best, found
}

// Builder collects notes for one finding until Emit.
type Builder struct {
	r    Reporter
	d    Diagnostic
	sent bool
}

// Error starts an error finding at span.
func Error(r Reporter, code Code, at source.Span, msg string) *Builder {
	return &Builder{r: r, d: Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: at}}
}

// Warning starts a warning finding at span.
func Warning(r Reporter, code Code, at source.Span, msg string) *Builder {
	return &Builder{r: r, d: Diagnostic{Severity: SevWarning, Code: code, Message: msg, Primary: at}}
}

// Note adds a secondary label.
func (b *Builder) Note(at source.Span, msg string) *Builder {
	b.d.Notes = append(b.d.Notes, Note{Span: at, Msg: msg})
	return b
}

// Emit reports the finding once; later calls do nothing. A nil Reporter
// swallows it.
func (b *Builder) Emit() {
	if b.sent {
		return
	}
	b.sent = true
	if b.r != nil {
		b.r.Report(b.d)
	}
}

// Diagnostic returns what Emit would report.
func (b *Builder) Diagnostic() Diagnostic { return b.d }
