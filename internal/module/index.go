package module

import (
	"fmt"
	"maps"
	"slices"

	"wgslsp/internal/ir"
	"wgslsp/internal/source"
)

// Entry is a compiled module cached for a location. Source is the exact
// text the IR was compiled from; IR spans are only valid against it.
type Entry struct {
	Location source.Location
	Name     string
	Deps     []string
	Module   *ir.Module
	Source   string
}

// Index couples module name bindings with the compiled module cache.
//
// Invariants, checked after every mutation:
//   - a name is bound to exactly one location;
//   - a bound location maps back to the same name;
//   - an entry's name is bound to the entry's location.
//
// A violation is a bug in the caller and panics.
type Index struct {
	byName  map[string]source.Location
	byLoc   map[source.Location]string
	entries map[source.Location]*Entry
}

func NewIndex() *Index {
	return &Index{
		byName:  make(map[string]source.Location),
		byLoc:   make(map[source.Location]string),
		entries: make(map[source.Location]*Entry),
	}
}

// Bind makes loc the provider of name. A previous provider of name loses
// its binding, and loc loses any binding under another name. Cache entries
// that no longer match their binding are dropped and returned so the
// caller can evict them from the composer.
func (x *Index) Bind(name string, loc source.Location) []*Entry {
	var dropped []*Entry
	if prev, ok := x.byName[name]; ok && prev != loc {
		delete(x.byLoc, prev)
		dropped = x.dropEntry(prev, dropped)
	}
	if old, ok := x.byLoc[loc]; ok && old != name {
		delete(x.byName, old)
		dropped = x.dropEntry(loc, dropped)
	}
	x.byName[name] = loc
	x.byLoc[loc] = name
	x.check()
	return dropped
}

func (x *Index) dropEntry(loc source.Location, acc []*Entry) []*Entry {
	if e, ok := x.entries[loc]; ok {
		delete(x.entries, loc)
		acc = append(acc, e)
	}
	return acc
}

// Lookup returns the location bound to name.
func (x *Index) Lookup(name string) (source.Location, bool) {
	loc, ok := x.byName[name]
	return loc, ok
}

// NameOf returns the name loc is bound under.
func (x *Index) NameOf(loc source.Location) (string, bool) {
	name, ok := x.byLoc[loc]
	return name, ok
}

// Entry returns the cached module of loc.
func (x *Index) Entry(loc source.Location) (*Entry, bool) {
	e, ok := x.entries[loc]
	return e, ok
}

// Put stores a cache entry. Its name must be bound to its location.
func (x *Index) Put(e *Entry) {
	if bound, ok := x.byName[e.Name]; !ok || bound != e.Location {
		panic(fmt.Sprintf("module: cache entry %q for %s but the name is bound to %q", e.Name, e.Location, bound))
	}
	x.entries[e.Location] = e
	x.check()
}

// Drop removes the cache entry of loc together with its name binding.
func (x *Index) Drop(loc source.Location) (*Entry, bool) {
	e, ok := x.entries[loc]
	if !ok {
		return nil, false
	}
	delete(x.entries, loc)
	if x.byName[e.Name] == loc {
		delete(x.byName, e.Name)
		delete(x.byLoc, loc)
	}
	x.check()
	return e, true
}

// Forget removes everything known about loc and returns the name it was
// bound under.
func (x *Index) Forget(loc source.Location) (string, bool) {
	delete(x.entries, loc)
	name, ok := x.byLoc[loc]
	if ok {
		delete(x.byLoc, loc)
		delete(x.byName, name)
	}
	x.check()
	return name, ok
}

// Names returns every bound name in sorted order.
func (x *Index) Names() []string {
	return slices.Sorted(maps.Keys(x.byName))
}

// Entries returns the cached locations in sorted order.
func (x *Index) Entries() []source.Location {
	return slices.Sorted(maps.Keys(x.entries))
}

func (x *Index) check() {
	if len(x.byName) != len(x.byLoc) {
		panic(fmt.Sprintf("module: %d names but %d bound locations", len(x.byName), len(x.byLoc)))
	}
	for name, loc := range x.byName {
		if back, ok := x.byLoc[loc]; !ok || back != name {
			panic(fmt.Sprintf("module: name %q bound to %s, which maps back to %q", name, loc, back))
		}
	}
	for loc, e := range x.entries {
		if e.Location != loc {
			panic(fmt.Sprintf("module: entry stored at %s claims %s", loc, e.Location))
		}
		if x.byName[e.Name] != loc {
			panic(fmt.Sprintf("module: entry %q at %s is not bound there", e.Name, loc))
		}
	}
}
