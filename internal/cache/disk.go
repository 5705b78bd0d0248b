// Package cache stores `wgslsp check` results on disk between runs.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/zerr"

	"wgslsp/internal/diagmap"
	"wgslsp/internal/project"
)

// schemaVersion меняется при любом изменении формата Payload.
const schemaVersion uint16 = 1

// DiskCache хранит результаты проверки модулей по хешу модуля.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the cached outcome of validating one file.
type Payload struct {
	Schema uint16

	Location string
	Module   string
	Deps     []string

	// ContentHash covers the file alone, ModuleHash the file plus the
	// sources of everything it transitively imports.
	ContentHash project.Digest
	ModuleHash  project.Digest

	Failed       bool
	Publications []diagmap.Publication
}

// Open uses dir as the cache directory, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "create cache dir"), "dir", dir)
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDefault opens $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func OpenDefault(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, zerr.Wrap(err, "locate cache dir")
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "results" удобно чистить руками
	return filepath.Join(c.dir, "results", fmt.Sprintf("%016x.mp", uint64(key)))
}

// Put serializes payload under key, replacing any previous entry
// atomically. A nil cache ignores the call.
func (c *DiskCache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return zerr.Wrap(err, "create cache dir")
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return zerr.Wrap(err, "create cache entry")
	}
	tmp := f.Name()
	payload.Schema = schemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "encode cache entry"), "location", payload.Location)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, "write cache entry")
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, "commit cache entry")
	}
	return nil
}

// Get reads the entry for key. Entries written by another schema version
// count as missing.
func (c *DiskCache) Get(key project.Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(err, "open cache entry")
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "decode cache entry"), "key", fmt.Sprintf("%016x", uint64(key)))
	}
	if out.Schema != schemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовать и удалить, чтобы не оставить полуудалённый каталог
	results := filepath.Join(c.dir, "results")
	old := results + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(results, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "drop cache")
	}
	return os.RemoveAll(old)
}
