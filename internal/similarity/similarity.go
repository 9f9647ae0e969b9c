// Package similarity provides text similarity scores in [0,1] for the
// semantic dimension of a match. Scores come from pluggable providers and
// embeddings are cached by normalized text.
package similarity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnavailable is returned when a provider cannot produce a score.
var ErrUnavailable = errors.New("similarity provider unavailable")

// Provider scores how similar two texts are. Implementations must return the
// same value for identical inputs within a session. Zero means no evidence.
type Provider interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Normalize folds case and collapses whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Key returns the cache key for text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return fmt.Sprintf("%x", sum[:])
}

// Cosine returns the cosine similarity of two vectors clamped to [0,1].
// Vectors of different length or zero magnitude yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return Clamp(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Clamp limits v to [0,1] and maps NaN to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
