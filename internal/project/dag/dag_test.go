package dag

import (
	"slices"
	"testing"

	"wgslsp/internal/module"
	"wgslsp/internal/source"
)

func header(name string, imports ...string) module.Header {
	h := module.Header{Name: name, Explicit: true}
	for _, imp := range imports {
		h.Imports = append(h.Imports, module.Import{Name: imp})
	}
	return h
}

func build(headers ...module.Header) (ModuleIndex, Graph) {
	locs := make([]source.Location, len(headers))
	for i, h := range headers {
		locs[i] = source.Location("file:///" + h.Name + ".wgsl")
	}
	idx := BuildIndex(headers)
	return idx, BuildGraph(idx, headers, locs)
}

func names(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func TestDependenciesComeFirst(t *testing.T) {
	idx, g := build(
		header("main", "lights", "math"),
		header("lights", "math"),
		header("math"),
	)
	o := Sort(g)
	if o.Cyclic() {
		t.Fatalf("unexpected cycle: %v", names(idx, o.Stuck))
	}
	got := names(idx, o.Order)
	want := []string{"math", "lights", "main"}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if len(o.Waves) != 3 {
		t.Fatalf("waves = %d, want 3", len(o.Waves))
	}
}

func TestIndependentModulesShareAWave(t *testing.T) {
	idx, g := build(header("b"), header("a"), header("c", "a", "b"))
	o := Sort(g)
	if got := names(idx, o.Waves[0]); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("first wave = %v", got)
	}
}

func TestItemImportResolvesToModule(t *testing.T) {
	idx, g := build(header("main", "lib::math::double"), header("lib::math"))
	if g.Missing != 0 {
		t.Fatalf("missing = %d, want 0", g.Missing)
	}
	o := Sort(g)
	if got := names(idx, o.Order); !slices.Equal(got, []string{"lib::math", "main"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestCycleIsReported(t *testing.T) {
	idx, g := build(header("a", "b"), header("b", "a"), header("c"))
	o := Sort(g)
	if !o.Cyclic() {
		t.Fatal("expected a cycle")
	}
	if got := names(idx, o.Stuck); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("cycles = %v", got)
	}
	if got := names(idx, o.Order); !slices.Equal(got, []string{"c"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestDuplicatesAndSelfImports(t *testing.T) {
	_, g := build(header("a", "a", "gone"), header("a"))
	if len(g.Duplicates) != 1 {
		t.Fatalf("duplicates = %v", g.Duplicates)
	}
	if g.Missing != 1 {
		t.Fatalf("missing = %d, want 1", g.Missing)
	}
	if g.Indeg[0] != 0 {
		t.Fatalf("self import added an edge")
	}
}
