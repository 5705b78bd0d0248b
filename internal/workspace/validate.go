package workspace

import (
	"wgslsp/internal/module"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
)

// Validate recompiles loc and publishes its diagnostics: an empty set on
// success, otherwise the mapped failure, which may also land on an
// imported file. A module that composes and links is cached even when
// semantic validation fails; the semantic error is still returned.
func (s *State) Validate(loc source.Location) error {
	text, ok := s.docs.Text(loc)
	if !ok {
		return ErrUnknownDocument
	}
	span := trace.Begin(s.tracer, trace.ScopeRequest, "validate").With("location", loc.String())
	err := s.validate(loc)
	if err != nil {
		span.With("error", err.Error())
	}
	span.End("")

	if err == nil {
		s.sink.Publish(loc, nil)
		return nil
	}
	s.log.Debug("validation failed", "location", loc, "err", err)
	for _, pub := range s.mapper.Map(err, loc, text) {
		s.sink.Publish(pub.Location, pub.Diagnostics)
	}
	return err
}

func (s *State) validate(loc source.Location) error {
	if e, ok := s.index.Drop(loc); ok {
		s.composer.Remove(e.Name)
	}
	root, err := s.resolve(loc)
	if err != nil {
		return err
	}
	name := root.hdr.Name
	if bound, ok := s.index.Lookup(name); !ok || bound != loc {
		// импорт переименовал другой файл в это же имя
		s.log.Warn("module name provided twice", "module", name, "location", loc, "other", bound)
		for _, e := range s.index.Bind(name, loc) {
			if e.Name != name {
				s.composer.Remove(e.Name)
			}
		}
	}

	span := trace.Begin(s.tracer, trace.ScopeStage, "link").With("module", name)
	linked, err := s.composer.Link(name)
	span.End("")
	if err != nil {
		return err
	}
	s.index.Put(&module.Entry{
		Location: loc,
		Name:     name,
		Deps:     root.hdr.ImportNames(),
		Module:   linked,
		Source:   root.text,
	})

	span = trace.Begin(s.tracer, trace.ScopeStage, "check").With("module", name)
	defer span.End("")
	return s.composer.Validate(name)
}
