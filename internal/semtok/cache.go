package semtok

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/zerr"

	"wgslsp/internal/ir"
	"wgslsp/internal/source"
)

type cacheKey struct {
	loc  source.Location
	hash uint64
	enc  source.Encoding
}

// Cache remembers encoded tokens per document snapshot. A new snapshot of
// the same document gets a new key; old ones age out.
type Cache struct {
	lru *lru.Cache[cacheKey, []uint32]
}

const (
	DefaultCacheSize = 256
	MaxCacheSize     = 1 << 16
)

// NewCache returns a cache holding at most size snapshots. A size of zero or
// less means DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if size > MaxCacheSize {
		return nil, zerr.With(zerr.With(zerr.New("token cache size out of range"), "size", size), "max", MaxCacheSize)
	}
	c, err := lru.New[cacheKey, []uint32](size)
	if err != nil {
		return nil, zerr.Wrap(err, "token cache")
	}
	return &Cache{lru: c}, nil
}

// MustNewCache is NewCache for sizes known to be valid.
func MustNewCache(size int) *Cache {
	c, err := NewCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// Tokens returns the encoded tokens of m, compiled from src.
func (c *Cache) Tokens(loc source.Location, m *ir.Module, src string, enc source.Encoding) []uint32 {
	key := cacheKey{loc: loc, hash: xxhash.Sum64String(src), enc: enc}
	if data, ok := c.lru.Get(key); ok {
		return data
	}
	data := Encode(Collect(m, src), src, enc)
	c.lru.Add(key, data)
	return data
}

func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every snapshot, for example after the position encoding
// changed.
func (c *Cache) Purge() { c.lru.Purge() }
