package workspace

import (
	"strings"

	"go.trai.ch/zerr"

	"wgslsp/internal/compose"
	"wgslsp/internal/module"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
)

// frame is one module on the resolution stack.
type frame struct {
	loc  source.Location
	text string
	hdr  module.Header
	next int
}

// lookup finds the location providing an import name. `a::b::x` falls back
// to the module `a::b` when no module is named `a::b::x`.
func (s *State) lookup(name string) (source.Location, string, bool) {
	if loc, ok := s.index.Lookup(name); ok {
		return loc, name, true
	}
	if cut := strings.LastIndex(name, "::"); cut > 0 {
		if loc, ok := s.index.Lookup(name[:cut]); ok {
			return loc, name[:cut], true
		}
	}
	return "", "", false
}

func (s *State) enter(loc source.Location) (*frame, error) {
	text, ok := s.docs.Text(loc)
	if !ok {
		if _, err := s.docs.EnsureDocument(loc); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "load module"), "location", loc.String())
		}
		text, _ = s.docs.Text(loc)
	}
	return &frame{loc: loc, text: text, hdr: s.preprocessText(loc, text)}, nil
}

// ResolveAndCompose composes loc after every module it transitively
// imports, dependencies first. An import nobody provides fails with
// ImportNotFoundError before the composer sees the importing subtree, and
// an import leading back onto the stack fails with ImportCycleError. The
// first failure stops the walk. Each dependency composed successfully has
// its diagnostics cleared.
func (s *State) ResolveAndCompose(loc source.Location) error {
	_, err := s.resolve(loc)
	return err
}

func (s *State) resolve(loc source.Location) (*frame, error) {
	span := trace.Begin(s.tracer, trace.ScopeStage, "resolve").With("location", loc.String())
	defer span.End("")

	root, err := s.enter(loc)
	if err != nil {
		return nil, err
	}
	stack := []*frame{root}
	onStack := map[source.Location]bool{loc: true}
	done := make(map[source.Location]bool)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.hdr.Imports) {
			imp := top.hdr.Imports[top.next]
			top.next++
			depLoc, _, found := s.lookup(imp.Name)
			switch {
			case !found:
				return nil, s.importNotFound(top, imp)
			case done[depLoc]:
				continue
			case onStack[depLoc]:
				return nil, s.importCycle(stack, top, imp, depLoc)
			}
			dep, err := s.enter(depLoc)
			if err != nil {
				return nil, err
			}
			stack = append(stack, dep)
			onStack[depLoc] = true
			continue
		}
		stack = stack[:len(stack)-1]
		delete(onStack, top.loc)
		done[top.loc] = true
		if err := s.compose(top); err != nil {
			return nil, err
		}
		if top != root {
			s.sink.Publish(top.loc, nil)
		}
	}
	return root, nil
}

func (s *State) compose(f *frame) error {
	span := trace.Begin(s.tracer, trace.ScopeModule, "compose").With("module", f.hdr.Name)
	defer span.End("")
	return s.composer.AddComposableModule(compose.ModuleDescriptor{
		Name:   f.hdr.Name,
		Path:   f.loc.String(),
		Source: f.text,
	})
}

func (s *State) importNotFound(f *frame, imp module.Import) error {
	sp := imp.Span
	if sp.Empty() {
		start := max(strings.Index(f.text, imp.Name), 0)
		sp = source.Span{Start: source.SafeUint32(start), End: source.SafeUint32(start + len(imp.Name))}
	}
	return &ImportNotFoundError{Location: f.loc, Module: f.hdr.Name, Text: f.text, Span: sp, Name: imp.Name}
}

func (s *State) importCycle(stack []*frame, f *frame, imp module.Import, back source.Location) error {
	var path []string
	for i, fr := range stack {
		if fr.loc == back {
			for _, cyc := range stack[i:] {
				path = append(path, cyc.hdr.Name)
			}
			path = append(path, stack[i].hdr.Name)
			break
		}
	}
	return &ImportCycleError{Location: f.loc, Module: f.hdr.Name, Text: f.text, Span: imp.Span, Name: imp.Name, Path: path}
}
