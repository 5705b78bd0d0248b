package document

import (
	"wgslsp/internal/source"
)

// Ownership tells who is allowed to change a document.
type Ownership uint8

const (
	// ServerOwned documents mirror a file on disk and are replaced wholesale.
	ServerOwned Ownership = iota
	// ClientOwned documents are open in the editor and receive range edits.
	ClientOwned
)

func (o Ownership) String() string {
	if o == ClientOwned {
		return "client"
	}
	return "server"
}

// Change is one entry of an incremental or full-text edit. A nil Range
// replaces the whole text.
type Change struct {
	Range *source.Range
	Text  string
}

// Document is a single source text plus its ownership mode.
type Document struct {
	Location source.Location
	Version  int

	owner Ownership
	rope  *Rope
	text  string
}

func newClientDocument(loc source.Location, text string, version int) *Document {
	return &Document{Location: loc, Version: version, owner: ClientOwned, rope: NewRope(text)}
}

func newServerDocument(loc source.Location, text string) *Document {
	return &Document{Location: loc, owner: ServerOwned, text: text}
}

// Owner reports the current ownership mode.
func (d *Document) Owner() Ownership { return d.owner }

// Text returns an immutable snapshot of the current content.
func (d *Document) Text() string {
	if d.owner == ClientOwned {
		return d.rope.String()
	}
	return d.text
}

func (d *Document) apply(changes []Change, enc source.Encoding) {
	for _, change := range changes {
		if change.Range == nil {
			d.rope = NewRope(change.Text)
			continue
		}
		start := d.rope.OffsetAt(change.Range.Start, enc)
		end := d.rope.OffsetAt(change.Range.End, enc)
		if end < start {
			end = start
		}
		d.rope.Replace(start, end, change.Text)
	}
}

func (d *Document) toServerOwned(text string) {
	d.owner = ServerOwned
	d.text = text
	d.rope = nil
	d.Version = 0
}
