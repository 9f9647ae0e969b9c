package similarity

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores vectors by key. A miss only costs a recomputation, so
// implementations may drop entries at any time.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, value []float32)
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]float32, bool) { return nil, false }

func (NopCache) Set(context.Context, string, []float32) {}

// LRUCache is an in-process cache bounded by capacity with least recently
// used eviction.
type LRUCache struct {
	entries *lru.Cache[string, []float32]
}

// NewLRUCache returns a cache holding at most capacity entries.
func NewLRUCache(capacity int) (*LRUCache, error) {
	entries, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache with capacity %d: %w", capacity, err)
	}
	return &LRUCache{entries: entries}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) ([]float32, bool) {
	return c.entries.Get(key)
}

func (c *LRUCache) Set(_ context.Context, key string, value []float32) {
	c.entries.Add(key, value)
}

func (c *LRUCache) Len() int {
	return c.entries.Len()
}
