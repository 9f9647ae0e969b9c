package sections

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cached remembers the sections of every document it extracted. Concurrent
// requests for the same text share one call to the inner extractor. Errors
// are not remembered.
type Cached struct {
	inner Extractor
	group singleflight.Group

	mu   sync.RWMutex
	done map[string]Sections
}

func NewCached(inner Extractor) *Cached {
	return &Cached{inner: inner, done: map[string]Sections{}}
}

func (c *Cached) Extract(ctx context.Context, raw string) (Sections, error) {
	key := strings.TrimSpace(raw)

	c.mu.RLock()
	s, ok := c.done[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		s, err := c.inner.Extract(ctx, raw)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.done[key] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Sections), nil
}
