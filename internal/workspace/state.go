package workspace

import (
	"io"

	"github.com/charmbracelet/log"

	"wgslsp/internal/compose"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/document"
	"wgslsp/internal/ir"
	"wgslsp/internal/module"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
)

// Options configures a State.
type Options struct {
	Logger     *log.Logger
	Tracer     trace.Tracer
	Encoding   source.Encoding
	ShaderDefs map[string]compose.ShaderDefValue
}

// State owns everything validation mutates: the composer, the module
// index and the diagnostic sink. It is not safe for concurrent use; the
// server drives it from a single goroutine.
type State struct {
	docs     *document.Store
	index    *module.Index
	composer *compose.Composer
	sink     diagmap.Sink
	mapper   diagmap.Mapper
	log      *log.Logger
	tracer   trace.Tracer
}

// CachedModule is the last structurally valid compile of a document.
// Source is the text the module was compiled from.
type CachedModule struct {
	Module *ir.Module
	Name   string
	Source string
}

func New(docs *document.Store, sink diagmap.Sink, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	if sink == nil {
		sink = diagmap.SinkFunc(func(source.Location, []diagmap.Diagnostic) {})
	}
	return &State{
		docs:     docs,
		index:    module.NewIndex(),
		composer: compose.New(compose.WithShaderDefs(opts.ShaderDefs)),
		sink:     sink,
		mapper:   diagmap.Mapper{Encoding: opts.Encoding},
		log:      logger.WithPrefix("workspace"),
		tracer:   tracer,
	}
}

// Documents returns the text store.
func (s *State) Documents() *document.Store { return s.docs }

// Index returns the module index.
func (s *State) Index() *module.Index { return s.index }

// Composer returns the composer state.
func (s *State) Composer() *compose.Composer { return s.composer }

// SetEncoding changes how published ranges count characters.
func (s *State) SetEncoding(enc source.Encoding) { s.mapper.Encoding = enc }

// Encoding returns the position encoding of published ranges.
func (s *State) Encoding() source.Encoding { return s.mapper.Encoding }

// SetShaderDefs replaces the composer's global shader defs. Composed
// modules are dropped when the defs change; cache entries stay until their
// documents are validated again.
func (s *State) SetShaderDefs(defs map[string]compose.ShaderDefValue) {
	s.composer.SetShaderDefs(defs)
}

// CachedModule returns the cached compile of loc.
func (s *State) CachedModule(loc source.Location) (CachedModule, bool) {
	e, ok := s.index.Entry(loc)
	if !ok {
		return CachedModule{}, false
	}
	return CachedModule{Module: e.Module, Name: e.Name, Source: e.Source}, true
}

// Preprocess reads the header of loc and binds its module name. Cache
// entries that lose their binding are evicted from the composer too.
func (s *State) Preprocess(loc source.Location) (module.Header, error) {
	text, ok := s.docs.Text(loc)
	if !ok {
		return module.Header{}, ErrUnknownDocument
	}
	return s.preprocessText(loc, text), nil
}

func (s *State) preprocessText(loc source.Location, text string) module.Header {
	h := module.Preprocess(loc, text)
	for _, e := range s.index.Bind(h.Name, loc) {
		s.log.Debug("binding moved, dropping cached module", "module", e.Name, "location", e.Location)
		s.composer.Remove(e.Name)
	}
	return h
}

// Forget drops everything known about loc after its file went away.
func (s *State) Forget(loc source.Location) {
	if name, ok := s.index.Forget(loc); ok {
		s.composer.Remove(name)
	}
	s.sink.Publish(loc, nil)
}

// DependencyClosure returns the locations loc transitively imports,
// dependencies first. Unbound names are skipped.
func (s *State) DependencyClosure(loc source.Location) []source.Location {
	var (
		out  []source.Location
		seen = map[source.Location]bool{loc: true}
		walk func(source.Location)
	)
	walk = func(at source.Location) {
		text, ok := s.docs.Text(at)
		if !ok {
			return
		}
		for _, name := range module.Preprocess(at, text).ImportNames() {
			dep, _, found := s.lookup(name)
			if !found || seen[dep] {
				continue
			}
			seen[dep] = true
			walk(dep)
			out = append(out, dep)
		}
	}
	walk(loc)
	return out
}
