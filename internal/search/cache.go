package search

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/hightemp/countrykit/internal/countries"
)

type cacheKey struct {
	query  string
	policy Policy
}

// Cache memoizes the outcomes of an engine over one country list.
type Cache struct {
	engine *Engine

	mu   sync.Mutex
	list []countries.Country
	lru  *expirable.LRU[cacheKey, Outcome]
}

// NewCache creates a cache of up to size outcomes, each kept for ttl.
// A zero ttl keeps outcomes until evicted.
func NewCache(engine *Engine, list []countries.Country, size int, ttl time.Duration) *Cache {
	return &Cache{
		engine: engine,
		list:   list,
		lru:    expirable.NewLRU[cacheKey, Outcome](size, nil, ttl),
	}
}

// Filter is Engine.Filter over the cached list.
func (c *Cache) Filter(query string, policy Policy) Outcome {
	key := cacheKey{query: strings.Join(Terms(query), " "), policy: policy}

	c.mu.Lock()
	list := c.list
	if out, ok := c.lru.Get(key); ok {
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	out := c.engine.Filter(query, list, policy)

	c.mu.Lock()
	if sameList(c.list, list) {
		c.lru.Add(key, out)
	}
	c.mu.Unlock()
	return out
}

// Reset replaces the list and drops every cached outcome.
func (c *Cache) Reset(list []countries.Country) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = list
	c.lru.Purge()
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func sameList(a, b []countries.Country) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
