package similarity

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// EmbeddingProvider scores texts by the cosine similarity of their embeddings.
type EmbeddingProvider struct {
	embedder Embedder
	cache    Cache
	logger   *zap.Logger
}

// NewEmbeddingProvider wraps embedder with cache. A nil cache disables caching.
func NewEmbeddingProvider(embedder Embedder, cache Cache, logger *zap.Logger) *EmbeddingProvider {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingProvider{embedder: embedder, cache: cache, logger: logger}
}

func (p *EmbeddingProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	if Normalize(a) == "" || Normalize(b) == "" {
		return 0, nil
	}

	va, err := p.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := p.embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return Cosine(va, vb), nil
}

func (p *EmbeddingProvider) embed(ctx context.Context, text string) ([]float32, error) {
	key := Key(text)
	if vec, ok := p.cache.Get(ctx, key); ok {
		return vec, nil
	}

	if p.embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrUnavailable)
	}

	vec, err := p.embedder.Embed(ctx, Normalize(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	p.logger.Debug("embedding computed", zap.String("key", key[:12]), zap.Int("dimensions", len(vec)))
	p.cache.Set(ctx, key, vec)
	return vec, nil
}

// Memoized caches pair scores of an inner provider. Scores are stored as
// one-element vectors so any Cache can hold them, and are rounded to float32
// on the first call too so cached and fresh answers are identical.
type Memoized struct {
	inner Provider
	cache Cache
}

func NewMemoized(inner Provider, cache Cache) *Memoized {
	if cache == nil {
		cache = NopCache{}
	}
	return &Memoized{inner: inner, cache: cache}
}

func (m *Memoized) Similarity(ctx context.Context, a, b string) (float64, error) {
	key := pairKey(a, b)
	if v, ok := m.cache.Get(ctx, key); ok && len(v) == 1 {
		return float64(v[0]), nil
	}

	score, err := m.inner.Similarity(ctx, a, b)
	if err != nil {
		return 0, err
	}
	stored := float32(Clamp(score))
	m.cache.Set(ctx, key, []float32{stored})
	return float64(stored), nil
}

func pairKey(a, b string) string {
	return "pair:" + Key(a) + ":" + Key(b)
}

// TokenOverlap is a deterministic provider that needs no external service.
// It returns the Jaccard index of the word sets of both texts.
type TokenOverlap struct{}

func (TokenOverlap) Similarity(_ context.Context, a, b string) (float64, error) {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0, nil
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union), nil
}

func tokens(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
