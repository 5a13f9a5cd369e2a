package protocol

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/uncomputable/simplicity/protocol/merkle"
)

// defaultCacheSize is the number of verification results
// kept when Config.CacheSize is zero.
const defaultCacheSize = 1000

type verifiedCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

type cacheEntry struct {
	res *Verified
	err error
}

func newVerifiedCache(size int) *verifiedCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &verifiedCache{
		lru: lru.New(size),
	}
}

func (c *verifiedCache) lookup(key merkle.Hash) (res *Verified, err error, ok bool) {
	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if !ok {
		return nil, nil, false
	}
	e := v.(cacheEntry)
	return e.res, e.err, true
}

func (c *verifiedCache) add(key merkle.Hash, res *Verified, err error) {
	c.mu.Lock()
	c.lru.Add(key, cacheEntry{res, err})
	c.mu.Unlock()
}
