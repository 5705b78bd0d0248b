// Package check validates every shader module under a set of directories,
// the batch counterpart of the language server.
package check

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"wgslsp/internal/cache"
	"wgslsp/internal/compose"
	"wgslsp/internal/diagfmt"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/document"
	"wgslsp/internal/module"
	"wgslsp/internal/observ"
	"wgslsp/internal/project"
	"wgslsp/internal/project/dag"
	"wgslsp/internal/source"
	"wgslsp/internal/trace"
	"wgslsp/internal/ui"
	"wgslsp/internal/workspace"
)

// Encoding is the column unit of check results: characters, as printed.
const Encoding = source.UTF32

type Options struct {
	Roots      []string
	Extensions []string
	ShaderDefs map[string]compose.ShaderDefValue

	// Cache may be nil.
	Cache  *cache.DiskCache
	Timer  *observ.Timer
	Tracer trace.Tracer
	Logger *log.Logger
	// Progress receives per-file events when set. Run does not close it.
	Progress chan<- ui.Event
}

// Result holds the final diagnostic set of every checked file.
type Result struct {
	// Files lists the files with diagnostics, sorted by location.
	Files     []diagfmt.File
	Checked   int
	CacheHits int
	Cyclic    bool
}

// Errors returns the number of error diagnostics.
func (r Result) Errors() int {
	errs, _ := diagfmt.Count(r.Files)
	return errs
}

// recorder forwards publications to the collector and remembers them for
// the disk cache.
type recorder struct {
	into *diagmap.Collector
	log  []diagmap.Publication
}

func (r *recorder) Publish(loc source.Location, diags []diagmap.Diagnostic) {
	r.into.Publish(loc, diags)
	r.log = append(r.log, diagmap.Publication{Location: loc, Diagnostics: slices.Clone(diags)})
}

// Files returns the paths Run would check, for progress display.
func Files(ctx context.Context, roots, exts []string) ([]project.File, error) {
	return project.Scan(ctx, roots, exts)
}

// Run validates every module under opts.Roots in dependency order.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("check")
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	timer.WithTracer(opts.Tracer)

	var files []project.File
	err := timer.Time("scan", func() error {
		var err error
		files, err = project.Scan(ctx, opts.Roots, opts.Extensions)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	docs := document.NewStore()
	collector := diagmap.NewCollector()
	rec := &recorder{into: collector}
	ws := workspace.New(docs, rec, workspace.Options{
		Logger:     logger,
		Tracer:     opts.Tracer,
		Encoding:   Encoding,
		ShaderDefs: opts.ShaderDefs,
	})

	var order []project.File
	cyclic := false
	err = timer.Time("resolve", func() error {
		headers := make([]module.Header, len(files))
		locs := make([]source.Location, len(files))
		for i, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs.ServerText(f.Location, f.Text)
			locs[i] = f.Location
			h, err := ws.Preprocess(f.Location)
			if err != nil {
				logger.Warn("preprocess failed", "location", f.Location, "err", err)
				emit(opts.Progress, ui.Event{File: f.Path, Stage: ui.StageLoad, Status: ui.StatusError})
				continue
			}
			headers[i] = h
			emit(opts.Progress, ui.Event{File: f.Path, Stage: ui.StageLoad, Status: ui.StatusDone})
		}
		order, cyclic = dependencyOrder(files, headers, locs)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if cyclic {
		logger.Warn("import cycle among modules")
	}

	defsKey := defsDigest(opts.ShaderDefs)
	hits := 0
	validate := timer.Begin("validate")
	for _, f := range order {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		emit(opts.Progress, ui.Event{File: f.Path, Stage: ui.StageValidate, Status: ui.StatusWorking})
		key := moduleKey(ws, docs, f, defsKey)
		if p, ok, err := opts.Cache.Get(key); err != nil {
			logger.Warn("cache read failed", "location", f.Location, "err", err)
		} else if ok && p.Location == f.Location.String() {
			hits++
			for _, pub := range p.Publications {
				collector.Publish(pub.Location, pub.Diagnostics)
			}
			emit(opts.Progress, ui.Event{File: f.Path, Stage: ui.StageValidate, Status: status(p.Failed), Cached: true})
			continue
		}

		rec.log = nil
		verr := ws.Validate(f.Location)
		emit(opts.Progress, ui.Event{File: f.Path, Stage: ui.StageValidate, Status: status(verr != nil)})
		payload := &cache.Payload{
			Location:     f.Location.String(),
			ContentHash:  project.HashSource(f.Text),
			ModuleHash:   key,
			Failed:       verr != nil,
			Publications: rec.log,
		}
		if cm, ok := ws.CachedModule(f.Location); ok {
			payload.Module = cm.Name
		}
		for _, dep := range ws.DependencyClosure(f.Location) {
			payload.Deps = append(payload.Deps, dep.String())
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			logger.Warn("cache write failed", "location", f.Location, "err", err)
		}
	}
	timer.End(validate, "")

	res := Result{Checked: len(files), CacheHits: hits, Cyclic: cyclic}
	for _, f := range files {
		if diags, ok := collector.Get(f.Location); ok && len(diags) > 0 {
			res.Files = append(res.Files, diagfmt.File{Location: f.Location, Text: f.Text, Diagnostics: diags})
		}
	}
	return res, nil
}

// dependencyOrder sorts files so every module comes after the modules it
// imports. Files caught in a cycle, and files sharing a module name, come
// last in scan order.
func dependencyOrder(files []project.File, headers []module.Header, locs []source.Location) ([]project.File, bool) {
	idx := dag.BuildIndex(headers)
	g := dag.BuildGraph(idx, headers, locs)
	sorted := dag.Sort(g)

	byLoc := make(map[source.Location]project.File, len(files))
	for _, f := range files {
		byLoc[f.Location] = f
	}
	out := make([]project.File, 0, len(files))
	placed := make(map[source.Location]bool, len(files))
	for _, id := range sorted.Order {
		loc := g.Locations[id]
		if f, ok := byLoc[loc]; ok && !placed[loc] {
			out = append(out, f)
			placed[loc] = true
		}
	}
	for _, f := range files {
		if !placed[f.Location] {
			out = append(out, f)
		}
	}
	return out, sorted.Cyclic()
}

// moduleKey hashes the file, every file it transitively imports and the
// shader defs in effect.
func moduleKey(ws *workspace.State, docs *document.Store, f project.File, defs project.Digest) project.Digest {
	deps := []project.Digest{defs}
	for _, dep := range ws.DependencyClosure(f.Location) {
		text, _ := docs.Text(dep)
		deps = append(deps, project.HashSource(dep.String()+"\x00"+text))
	}
	return project.Combine(project.HashSource(f.Location.String()+"\x00"+f.Text), deps...)
}

func defsDigest(defs map[string]compose.ShaderDefValue) project.Digest {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(defs)) {
		sb.WriteString(k + "=" + defs[k].String() + "\n")
	}
	return project.HashSource(sb.String())
}

func status(failed bool) ui.Status {
	if failed {
		return ui.StatusError
	}
	return ui.StatusDone
}

func emit(ch chan<- ui.Event, ev ui.Event) {
	if ch != nil {
		ch <- ev
	}
}
