package compose

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"wgslsp/internal/diag"
	"wgslsp/internal/ir"
	"wgslsp/internal/parser"
	"wgslsp/internal/sema"
	"wgslsp/internal/source"
)

// decorationMarker is reserved for names the composer may generate; user
// code must not contain it.
const decorationMarker = "X_wgslsp_mod_X"

// maxParseErrors bounds parser recovery. Only the earliest error is
// surfaced, the rest just has to stay cheap.
const maxParseErrors = 16

// ModuleDescriptor is a module handed to the composer.
type ModuleDescriptor struct {
	// Name is the module name. When empty the `#define_import_path`
	// directive of Source is used.
	Name string
	// Path identifies the file the module came from.
	Path   string
	Source string
	// ShaderDefs are added to the composer's defs for this module only.
	ShaderDefs map[string]ShaderDefValue
}

type composedModule struct {
	name   string
	path   string
	source string
	pre    *preprocessed
	deps   []string
	pkg    *sema.Package
	linked *ir.Module
}

func (m *composedModule) errSource(base uint32) ErrSource {
	return ErrSource{Name: m.name, Path: m.path, Source: m.source, Offset: base}
}

// Composer holds the set of composed modules. A module can be composed
// only after every module it imports; removing a module removes everything
// that imports it.
type Composer struct {
	modules map[string]*composedModule
	defs    map[string]ShaderDefValue
}

type Option func(*Composer)

// WithShaderDefs sets the defs every module is preprocessed with.
func WithShaderDefs(defs map[string]ShaderDefValue) Option {
	return func(c *Composer) { c.defs = maps.Clone(defs) }
}

func New(opts ...Option) *Composer {
	c := &Composer{modules: make(map[string]*composedModule)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetShaderDefs replaces the global defs. Every composed module was
// preprocessed with the old ones, so all of them are dropped.
func (c *Composer) SetShaderDefs(defs map[string]ShaderDefValue) {
	if maps.Equal(c.defs, defs) {
		return
	}
	c.defs = maps.Clone(defs)
	clear(c.modules)
}

// ShaderDefs returns a copy of the global defs.
func (c *Composer) ShaderDefs() map[string]ShaderDefValue {
	return maps.Clone(c.defs)
}

// Contains reports whether a module with the given name is composed.
func (c *Composer) Contains(name string) bool {
	_, ok := c.modules[name]
	return ok
}

// Names returns the composed module names in sorted order.
func (c *Composer) Names() []string {
	return slices.Sorted(maps.Keys(c.modules))
}

// Imports returns the direct dependencies of a composed module.
func (c *Composer) Imports(name string) []string {
	if m, ok := c.modules[name]; ok {
		return slices.Clone(m.deps)
	}
	return nil
}

// Remove drops a module and, transitively, every module importing it.
func (c *Composer) Remove(name string) {
	if _, ok := c.modules[name]; !ok {
		return
	}
	delete(c.modules, name)
	for _, dependent := range c.Names() {
		if m, ok := c.modules[dependent]; ok && slices.Contains(m.deps, name) {
			c.Remove(dependent)
		}
	}
}

// AddComposableModule preprocesses, parses and resolves a module against the
// modules already composed. Adding a module whose source and path did not
// change is a no-op; a changed module replaces the old one, dropping its
// dependents first.
func (c *Composer) AddComposableModule(desc ModuleDescriptor) error {
	es := ErrSource{Name: desc.Name, Path: desc.Path, Source: desc.Source}
	defs := c.defs
	if len(desc.ShaderDefs) > 0 {
		defs = maps.Clone(c.defs)
		if defs == nil {
			defs = make(map[string]ShaderDefValue)
		}
		for k, v := range desc.ShaderDefs {
			if prev, ok := defs[k]; ok && prev != v {
				return newError(InconsistentShaderDefValue, es,
					fmt.Sprintf("shader def '%s' is %s globally but %s for this module", k, prev, v))
			}
			defs[k] = v
		}
	}
	pre, perr := preprocess(desc.Source, defs, es)
	if perr != nil {
		return perr
	}
	name := desc.Name
	if name == "" {
		name = pre.Name
	}
	if name == "" {
		return newError(NoModuleName, es, "no name given for module and no #define_import_path found")
	}
	es.Name = name
	if old, ok := c.modules[name]; ok {
		if old.source == desc.Source && old.path == desc.Path {
			return nil
		}
		c.Remove(name)
	}

	m := &composedModule{name: name, path: desc.Path, source: desc.Source, pre: pre}
	imports, err := c.bindImports(m)
	if err != nil {
		return err
	}
	tag, base := c.ownSegment(m)
	if err := c.checkUnitSize(m); err != nil {
		return err
	}
	es.Offset = base

	if i := strings.Index(pre.Text, decorationMarker); i >= 0 {
		e := newError(DecorationInSource, es, fmt.Sprintf("'%s' is reserved and must not appear in source", decorationMarker))
		e.Range = source.Span{Start: source.SafeUint32(i), End: source.SafeUint32(i + len(decorationMarker))}
		return e
	}
	for _, imp := range pre.Imports {
		for _, it := range imp.Items {
			if err := c.checkItem(es, tag, base, imp, it); err != nil {
				return err
			}
		}
	}

	bag := diag.NewBag(maxParseErrors)
	file := parser.Parse(pre.Text, parser.Options{
		MaxErrors: maxParseErrors,
		Reporter:  bag,
	})
	if d, ok := bag.First(); ok {
		return labeled(ParseError, es, tag, base, d)
	}
	for _, d := range file.Decls {
		id, ok := d.DeclName()
		if ok && strings.HasPrefix(id.Name, "__") {
			e := newError(InvalidIdentifier, es, fmt.Sprintf("identifier '%s' is reserved", id.Name))
			e.At = PackSpan(tag, base, id.Sp)
			return e
		}
	}

	pkg := sema.NewPackage(name, file, imports)
	sema.Resolve(pkg, bag)
	if d, ok := bag.First(); ok {
		return labeled(ParseError, es, tag, base, d)
	}
	m.pkg = pkg
	c.modules[name] = m
	return nil
}

// bindImports turns the module's import directives into package imports.
// Every imported module must already be composed.
func (c *Composer) bindImports(m *composedModule) ([]*sema.Import, *Error) {
	es := m.errSource(0)
	var (
		out     []*sema.Import
		visible = make(map[string]string) // имя без квалификатора -> модуль
	)
	for i := range m.pre.Imports {
		def := &m.pre.Imports[i]
		dep, ok := c.modules[def.Module]
		if !ok && !def.Quoted && len(def.Items) == 0 {
			// `#import a::b::x` импортирует элемент x модуля a::b
			if cut := strings.LastIndex(def.Module, "::"); cut > 0 {
				if parent, found := c.modules[def.Module[:cut]]; found {
					item := ImportItem{Name: def.Module[cut+2:], Alias: def.Alias}
					item.Span = source.Span{Start: def.Span.Start + source.SafeUint32(cut+2), End: def.Span.End}
					def.Module, def.Items, def.Alias = parent.name, []ImportItem{item}, ""
					def.Span.End = def.Span.Start + source.SafeUint32(cut)
					dep, ok = parent, true
				}
			}
		}
		if !ok {
			return nil, positional(ImportNotFound, es, def.Span.Start, fmt.Sprintf("required import '%s' not found", def.Module))
		}
		if len(dep.pre.Defines) > 0 {
			first := dep.pre.Defines[0]
			return nil, positional(DefineInModule, dep.errSource(0), first.Pos,
				fmt.Sprintf("#define '%s' is only allowed in a top-level module, but '%s' is imported by '%s'", first.Name, dep.name, m.name))
		}
		imp := &sema.Import{Module: dep.pkg, Path: def.Module, Alias: def.Alias}
		if imp.Alias == "" && !def.Quoted {
			imp.Alias = lastSegment(def.Module)
		}
		imp.Glob = def.Quoted && def.Alias == ""
		for _, it := range def.Items {
			imp.Items = append(imp.Items, sema.ImportItem{Name: it.Name, Alias: it.Alias, Span: it.Span})
			vis := it.Name
			if it.Alias != "" {
				vis = it.Alias
			}
			if prev, dup := visible[vis]; dup && prev != dep.name {
				return nil, newError(RedirectError, es,
					fmt.Sprintf("'%s' is imported from both '%s' and '%s'", vis, prev, dep.name))
			}
			visible[vis] = dep.name
		}
		if !slices.Contains(m.deps, dep.name) {
			m.deps = append(m.deps, dep.name)
		}
		out = append(out, imp)
	}
	return out, nil
}

// lastSegment returns the implicit qualifier of a module path: "util" for
// "lib::util".
func lastSegment(path string) string {
	if cut := strings.LastIndex(path, "::"); cut >= 0 {
		return path[cut+2:]
	}
	return path
}

func (c *Composer) checkItem(es ErrSource, tag, base uint32, imp ImportDef, it ImportItem) *Error {
	dep := c.modules[imp.Module]
	if _, ok := dep.pkg.Exported(it.Name); ok {
		return nil
	}
	e := newError(HeaderValidationError, es, fmt.Sprintf("module '%s' has no declaration named '%s'", imp.Module, it.Name))
	e.Labels = []Label{{Span: PackSpan(tag, base, it.Span), Message: "imported here"}}
	return e
}

func labeled(kind ErrorKind, es ErrSource, tag, base uint32, d diag.Diagnostic) *Error {
	e := newError(kind, es, d.Message)
	e.Labels = append(e.Labels, Label{Span: PackSpan(tag, base, d.Primary), Message: d.Message})
	for _, n := range d.Notes {
		e.Labels = append(e.Labels, Label{Span: PackSpan(tag, base, n.Span), Message: n.Msg})
	}
	return e
}

// Link builds the IR of a composed module.
func (c *Composer) Link(name string) (*ir.Module, error) {
	m, ok := c.modules[name]
	if !ok {
		return nil, newError(BackendError, ErrSource{Name: name}, fmt.Sprintf("module '%s' is not composed", name))
	}
	if err := c.checkUnitSize(m); err != nil {
		return nil, err
	}
	if m.linked == nil {
		m.linked = sema.Lower(m.pkg)
	}
	return m.linked, nil
}

// Validate type-checks a composed module together with everything it
// imports. The first error is returned, dependencies first.
func (c *Composer) Validate(name string) error {
	m, ok := c.modules[name]
	if !ok {
		return newError(BackendError, ErrSource{Name: name}, fmt.Sprintf("module '%s' is not composed", name))
	}
	for _, seg := range c.unit(m) {
		bag := diag.NewBag(maxParseErrors)
		sema.Check(seg.mod.pkg, bag)
		if d, found := bag.First(); found {
			return labeled(ShaderValidationError, seg.mod.errSource(seg.base), seg.tag, seg.base, d)
		}
	}
	return nil
}
