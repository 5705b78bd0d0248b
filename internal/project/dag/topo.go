package dag

import (
	"slices"
)

// Ordering is the result of Sort.
type Ordering struct {
	// Order lists modules so that every import comes before its importer.
	Order []ModuleID
	// Waves groups Order into modules whose imports are all in earlier waves.
	Waves [][]ModuleID
	// Stuck holds modules never freed: cycle members and their importers.
	Stuck []ModuleID
}

// Cyclic reports whether some module could not be ordered.
func (o Ordering) Cyclic() bool { return len(o.Stuck) > 0 }

// Sort orders the present modules of g wave by wave. Inside a wave modules
// are sorted by ID, which follows their names.
func Sort(g Graph) Ordering {
	pending := slices.Clone(g.Indeg)
	var wave []ModuleID
	for id, present := range g.Present {
		if present && pending[id] == 0 {
			wave = append(wave, ModuleID(id))
		}
	}

	var o Ordering
	for len(wave) > 0 {
		o.Waves = append(o.Waves, wave)
		o.Order = append(o.Order, wave...)
		var freed []ModuleID
		for _, dep := range wave {
			for _, importer := range g.Edges[dep] {
				if pending[importer]--; pending[importer] == 0 && g.Present[importer] {
					freed = append(freed, importer)
				}
			}
		}
		slices.Sort(freed)
		wave = freed
	}

	for id, present := range g.Present {
		if present && pending[id] > 0 {
			o.Stuck = append(o.Stuck, ModuleID(id))
		}
	}
	return o
}
