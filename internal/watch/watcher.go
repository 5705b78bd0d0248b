// Package watch forwards filesystem changes of shader files to the server
// loop. The watcher goroutine never touches server state; it only sends
// events on a channel.
package watch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"

	"wgslsp/internal/source"
)

const eventBuffer = 100

// Kind is the change type of an Event, numbered like the protocol's
// FileChangeType.
type Kind uint8

const (
	Created Kind = iota + 1
	Changed
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Event is a change to one watched file.
type Event struct {
	Location source.Location
	Kind     Kind
}

var skipDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// Watcher watches directory trees recursively and reports changes of files
// with one of the configured extensions.
type Watcher struct {
	fsw    *fsnotify.Watcher
	exts   []string
	events chan Event
	log    *log.Logger
}

// New creates a watcher for files with the given extensions. A nil logger
// discards output.
func New(exts []string, logger *log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "create watcher")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{
		fsw:    fsw,
		exts:   exts,
		events: make(chan Event, eventBuffer),
		log:    logger.WithPrefix("watch"),
	}, nil
}

// Add watches root and every directory below it. Missing roots are ignored.
func (w *Watcher) Add(root string) error {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "watch root"), "path", root)
	}
	for _, dir := range dirsUnder(root) {
		if err := w.fsw.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "watch directory"), "path", dir)
		}
	}
	return nil
}

// Events is closed when Run returns.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the underlying watcher, which makes Run return.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run converts raw notifications into events until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if raw.Has(fsnotify.Create) {
				if info, err := os.Stat(raw.Name); err == nil && info.IsDir() {
					for _, dir := range dirsUnder(raw.Name) {
						_ = w.fsw.Add(dir)
					}
					continue
				}
			}
			ev, ok := w.convert(raw)
			if !ok {
				continue
			}
			select {
			case w.events <- ev:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) convert(raw fsnotify.Event) (Event, bool) {
	if !w.matches(raw.Name) {
		return Event{}, false
	}
	loc := source.LocationFromPath(raw.Name)
	switch {
	case raw.Has(fsnotify.Remove), raw.Has(fsnotify.Rename):
		return Event{Location: loc, Kind: Deleted}, true
	case raw.Has(fsnotify.Create):
		return Event{Location: loc, Kind: Created}, true
	case raw.Has(fsnotify.Write):
		return Event{Location: loc, Kind: Changed}, true
	}
	return Event{}, false
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(w.exts, ext)
}

func dirsUnder(root string) []string {
	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // недоступные каталоги пропускаем
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
			return fs.SkipDir
		}
		out = append(out, path)
		return nil
	})
	return out
}
