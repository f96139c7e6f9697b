package studentdata

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// resourceCache holds scraped records per session so repeated fetches
// inside the TTL window don't hit the portal again. Entries expire
// independently, eviction of one resource never disturbs another.
type resourceCache struct {
	lru *expirable.LRU[ResourceKind, any]
}

func newResourceCache(ttl time.Duration) *resourceCache {
	return &resourceCache{
		lru: expirable.NewLRU[ResourceKind, any](32, nil, ttl),
	}
}

func (c *resourceCache) Get(kind ResourceKind) (any, bool) {
	return c.lru.Get(kind)
}

func (c *resourceCache) Set(kind ResourceKind, value any) {
	c.lru.Add(kind, value)
}

func (c *resourceCache) Purge() {
	c.lru.Purge()
}
