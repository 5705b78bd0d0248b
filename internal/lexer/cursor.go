package lexer

import (
	"wgslsp/internal/source"
)

// Cursor walks the bytes of one module source. Off never passes Limit.
type Cursor struct {
	Text  string
	Off   uint32
	Limit uint32
}

func NewCursor(text string) Cursor {
	return Cursor{Text: text, Limit: source.SafeUint32(len(text))}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the byte at Off, or 0 at the end.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text[c.Off]
}

// Peek2 returns the bytes at Off and Off+1; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], true
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.Text[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark is a saved offset, used to cut the span of a token.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}
