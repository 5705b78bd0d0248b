package compose

import (
	"fmt"

	"wgslsp/internal/source"
)

// segment is one module's place in a unit buffer. The buffer is the
// dependency-first concatenation of module sources, each followed by a
// newline; tag is the segment index plus one.
type segment struct {
	mod  *composedModule
	tag  uint32
	base uint32
}

// unit lays out the unit buffer of m: its transitive imports in dependency
// order, then m itself.
func (c *Composer) unit(m *composedModule) []segment {
	var (
		order []*composedModule
		seen  = make(map[string]bool)
		visit func(name string)
	)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		dep, ok := c.modules[name]
		if !ok {
			return
		}
		for _, d := range dep.deps {
			visit(d)
		}
		order = append(order, dep)
	}
	seen[m.name] = true
	for _, d := range m.deps {
		visit(d)
	}
	order = append(order, m)

	segs := make([]segment, len(order))
	var base uint32
	for i, mod := range order {
		segs[i] = segment{mod: mod, tag: source.SafeUint32(i + 1), base: base}
		base += source.SafeUint32(len(mod.source) + 1)
	}
	return segs
}

// ownSegment returns where m itself sits in its unit buffer.
func (c *Composer) ownSegment(m *composedModule) (tag, base uint32) {
	segs := c.unit(m)
	last := segs[len(segs)-1]
	return last.tag, last.base
}

// UnitLen returns the length of a composed module's unit buffer.
func (c *Composer) UnitLen(name string) int {
	m, ok := c.modules[name]
	if !ok {
		return 0
	}
	return unitLen(c.unit(m))
}

func unitLen(segs []segment) int {
	if len(segs) == 0 {
		return 0
	}
	last := segs[len(segs)-1]
	return int(last.base) + len(last.mod.source)
}

func (c *Composer) checkUnitSize(m *composedModule) *Error {
	n := unitLen(c.unit(m))
	if n <= MaxUnitLen {
		return nil
	}
	return newError(BackendError, m.errSource(0),
		fmt.Sprintf("composed unit of '%s' is %d bytes; spans address at most %d", m.name, n, MaxUnitLen))
}
