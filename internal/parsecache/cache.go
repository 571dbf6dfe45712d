// Package parsecache memoizes parse results by source content.
package parsecache

import (
	"sync/atomic"

	spooky "github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config controls the cache size.
type Config struct {
	// Size is the max number of parsed sources to keep.
	Size int
}

// DefaultConfig is used when no configuration file is given.
var DefaultConfig = Config{Size: 256}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64 // includes entries dropped by Purge
	Len       int
}

type entry[N any] struct {
	src  string
	node N
	err  error
}

// Cache wraps a parse function. Sources are keyed by their 64-bit spooky
// hash; both results and failures are cached. A Cache is safe for
// concurrent use if the parse function is.
type Cache[N any] struct {
	parse  func(src string) (N, error)
	lru    *lru.Cache
	logger *zap.Logger

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a Cache in front of parse.
func New[N any](cfg Config, parse func(src string) (N, error), logger *zap.Logger) (*Cache[N], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache[N]{parse: parse, logger: logger}
	l, err := lru.NewWithEvict(cfg.Size, func(key, _ interface{}) {
		atomic.AddUint64(&c.evictions, 1)
		c.logger.Debug("parse cache eviction", zap.Uint64("hash", key.(uint64)))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating parse cache of size %d", cfg.Size)
	}
	c.lru = l
	return c, nil
}

// Parse returns the cached result for src, parsing it on a miss.
func (c *Cache[N]) Parse(src string) (N, error) {
	hash := hashContents(src)
	if v, ok := c.lru.Get(hash); ok {
		// a hash collision is treated as a miss
		if e := v.(*entry[N]); e.src == src {
			atomic.AddUint64(&c.hits, 1)
			return e.node, e.err
		}
	}
	atomic.AddUint64(&c.misses, 1)

	node, err := c.parse(src)
	c.lru.Add(hash, &entry[N]{src: src, node: node, err: err})
	c.logger.Debug("parse cache miss", zap.Uint64("hash", hash), zap.Int("bytes", len(src)), zap.Bool("failed", err != nil))
	return node, err
}

// Stats returns the current counters.
func (c *Cache[N]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadUint64(&c.hits),
		Misses:    atomic.LoadUint64(&c.misses),
		Evictions: atomic.LoadUint64(&c.evictions),
		Len:       c.lru.Len(),
	}
}

// Purge drops every cached entry.
func (c *Cache[N]) Purge() {
	c.lru.Purge()
}

func hashContents(src string) uint64 {
	return spooky.Hash64([]byte(src))
}
