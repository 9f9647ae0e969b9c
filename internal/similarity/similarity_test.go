package similarity

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls   int
	vectors map[string][]float32
	err     error
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{-1, 0}), "negative similarity is clamped")
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 1.0, Clamp(1.3))
	assert.Equal(t, 0.25, Clamp(0.25))
}

func TestKeyNormalizes(t *testing.T) {
	assert.Equal(t, Key("Go  developer"), Key(" go developer\n"))
	assert.NotEqual(t, Key("go developer"), Key("go engineer"))
}

func TestLRUCacheEvicts(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	c.Set(ctx, "a", []float32{1})
	c.Set(ctx, "b", []float32{2})
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", []float32{3})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry must be evicted")
	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []float32{1}, v)

	_, err = NewLRUCache(0)
	assert.Error(t, err)
}

func TestEmbeddingProviderUsesCache(t *testing.T) {
	ctx := context.Background()
	embedder := &countingEmbedder{vectors: map[string][]float32{
		"go backend services": {1, 0, 1},
		"backend engineer":    {1, 0, 0},
	}}
	cache, err := NewLRUCache(16)
	require.NoError(t, err)

	p := NewEmbeddingProvider(embedder, cache, nil)

	first, err := p.Similarity(ctx, "Go backend  services", "Backend engineer")
	require.NoError(t, err)
	second, err := p.Similarity(ctx, "go backend services", "backend ENGINEER")
	require.NoError(t, err)

	assert.InDelta(t, 1/math.Sqrt2, first, 1e-6)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, embedder.calls)
}

func TestEmbeddingProviderFailure(t *testing.T) {
	p := NewEmbeddingProvider(&countingEmbedder{err: errors.New("quota exceeded")}, nil, nil)

	_, err := p.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	score, err := p.Similarity(context.Background(), "", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

type fixedProvider struct {
	calls int
	score float64
}

func (f *fixedProvider) Similarity(context.Context, string, string) (float64, error) {
	f.calls++
	return f.score, nil
}

func TestMemoized(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCache(4)
	require.NoError(t, err)

	inner := &fixedProvider{score: 1.7}
	m := NewMemoized(inner, cache)

	for i := 0; i < 3; i++ {
		score, err := m.Similarity(ctx, "a", "b")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestMemoizedIsStable(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCache(4)
	require.NoError(t, err)

	m := NewMemoized(&fixedProvider{score: 0.7}, cache)

	first, err := m.Similarity(ctx, "a", "b")
	require.NoError(t, err)
	second, err := m.Similarity(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.InDelta(t, 0.7, first, 1e-6)
}

func TestTokenOverlap(t *testing.T) {
	ctx := context.Background()
	p := TokenOverlap{}

	score, err := p.Similarity(ctx, "Python, C++ and ML", "ml python")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)

	score, err = p.Similarity(ctx, "", "python")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	again, _ := p.Similarity(ctx, "Python, C++ and ML", "ml python")
	assert.InDelta(t, 0.5, again, 1e-9)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisConfig{Address: mr.Addr(), TTL: time.Minute}, nil)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	vec := []float32{0.5, -1.25, 3}
	c.Set(ctx, "k", vec)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, vec, got)
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry must expire after ttl")

	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "abc"))
	_, ok = c.Get(ctx, "bad")
	assert.False(t, ok)
}

func TestRedisCacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisConfig{Address: addr}, nil)
	assert.Error(t, err)
}
