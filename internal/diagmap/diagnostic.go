package diagmap

import (
	"maps"
	"slices"

	"wgslsp/internal/diag"
	"wgslsp/internal/source"
)

// Related points at another location that contributes to a diagnostic.
type Related struct {
	Location source.Location
	Range    source.Range
	Message  string
}

// Diagnostic is a finding positioned in one file, ready to publish.
type Diagnostic struct {
	Range    source.Range
	Severity diag.Severity
	Code     diag.Code
	Message  string
	Related  []Related
}

// Publication is the complete diagnostic set of one file. An empty set
// clears what was published for it before.
type Publication struct {
	Location    source.Location
	Diagnostics []Diagnostic
}

// Sink receives diagnostic sets. Each call replaces the previous set of the
// location.
type Sink interface {
	Publish(loc source.Location, diags []Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(loc source.Location, diags []Diagnostic)

func (f SinkFunc) Publish(loc source.Location, diags []Diagnostic) { f(loc, diags) }

// Collector is a Sink that remembers the last set published per location.
type Collector struct {
	sets  map[source.Location][]Diagnostic
	count map[source.Location]int
}

func NewCollector() *Collector {
	return &Collector{
		sets:  make(map[source.Location][]Diagnostic),
		count: make(map[source.Location]int),
	}
}

func (c *Collector) Publish(loc source.Location, diags []Diagnostic) {
	c.sets[loc] = diags
	c.count[loc]++
}

// Get returns the last set published for loc and whether anything was
// published at all.
func (c *Collector) Get(loc source.Location) ([]Diagnostic, bool) {
	d, ok := c.sets[loc]
	return d, ok
}

// Publishes returns how many times loc was published to.
func (c *Collector) Publishes(loc source.Location) int {
	return c.count[loc]
}

// Locations returns every location that was published to, sorted.
func (c *Collector) Locations() []source.Location {
	return slices.Sorted(maps.Keys(c.sets))
}

// Reset forgets everything collected so far.
func (c *Collector) Reset() {
	clear(c.sets)
	clear(c.count)
}
