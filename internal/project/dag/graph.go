package dag

import (
	"wgslsp/internal/module"
	"wgslsp/internal/source"
)

// Graph stores edges from a dependency to its importers, so a Kahn sort
// yields dependencies first.
type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = importers
	Indeg   []int        // число импортов, найденных среди модулей
	Present []bool
	// Locations[id] is the file that declared the module first.
	Locations []source.Location
	// Duplicates lists files whose module name was already taken.
	Duplicates []source.Location
	// Missing counts imports that name no known module.
	Missing int
}

// BuildGraph links the headers through idx. Self-imports and repeated
// imports add no edge.
func BuildGraph(idx ModuleIndex, headers []module.Header, locs []source.Location) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:     make([][]ModuleID, n),
		Indeg:     make([]int, n),
		Present:   make([]bool, n),
		Locations: make([]source.Location, n),
	}
	owner := make([]int, n)
	for i, h := range headers {
		id, ok := idx.NameToID[h.Name]
		if !ok {
			continue
		}
		if g.Present[id] {
			g.Duplicates = append(g.Duplicates, locs[i])
			continue
		}
		g.Present[id] = true
		g.Locations[id] = locs[i]
		owner[id] = i
	}

	for id := range n {
		if !g.Present[id] {
			continue
		}
		seen := make(map[ModuleID]struct{})
		for _, name := range headers[owner[id]].ImportNames() {
			dep, ok := idx.Resolve(name)
			if !ok {
				g.Missing++
				continue
			}
			if int(dep) == id {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			g.Edges[dep] = append(g.Edges[dep], ModuleID(id))
			g.Indeg[id]++
		}
	}
	return g
}
