package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/scoring"
)

// Weights maps a dimension to its share of the overall score.
type Weights map[scoring.Dimension]float64

// DefaultWeights returns the canonical weights. They sum to 1.
func DefaultWeights() Weights {
	return Weights{
		scoring.PrimarySkills:   0.35,
		scoring.SecondarySkills: 0.20,
		scoring.Experience:      0.15,
		scoring.Location:        0.10,
		scoring.WorkType:        0.10,
		scoring.Certifications:  0.05,
		scoring.Semantic:        0.05,
	}
}

// ParseWeights converts a name keyed map, as read from configuration, into
// Weights. Unknown names are reported as an error.
func ParseWeights(raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	w := make(Weights, len(raw))
	var unknown []string
	for name, v := range raw {
		d, err := scoring.ParseDimension(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		w[d] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown weight dimensions: %s", strings.Join(unknown, ", "))
	}
	return w, nil
}

// Validate reports why w cannot be used.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("no weights configured")
	}
	for _, d := range w.keys() {
		if v := w[d]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight of %s must be a finite non-negative number, got %v", d, v)
		}
	}
	if w.total() <= 0 {
		return fmt.Errorf("weights must sum to a positive total")
	}
	return nil
}

// Normalized returns a copy of w restricted to dims and scaled to sum to 1.
// Dimensions in dims without a weight get 0.
func (w Weights) Normalized(dims []scoring.Dimension) Weights {
	out := make(Weights, len(dims))
	for _, d := range dims {
		out[d] = w[d]
	}
	total := out.total()
	if total <= 0 {
		return out
	}
	for d := range out {
		out[d] /= total
	}
	return out
}

// Resolve validates configured weights and normalizes them over dims. Invalid
// weights, or weights that give no share to any of dims, fall back to
// DefaultWeights with a warning.
func Resolve(configured Weights, dims []scoring.Dimension, logger *zap.Logger) Weights {
	if logger == nil {
		logger = zap.NewNop()
	}

	if configured == nil {
		return DefaultWeights().Normalized(dims)
	}

	if err := configured.Validate(); err != nil {
		logger.Warn("using default weights", zap.String("reason", err.Error()))
		return DefaultWeights().Normalized(dims)
	}

	normalized := configured.Normalized(dims)
	if normalized.total() <= 0 {
		logger.Warn("using default weights", zap.String("reason", "configured weights cover none of the scored dimensions"))
		return DefaultWeights().Normalized(dims)
	}
	return normalized
}

func (w Weights) total() float64 {
	var t float64
	for _, d := range w.keys() {
		t += w[d]
	}
	return t
}

// keys returns the dimensions of w in a fixed order so float sums are
// reproducible.
func (w Weights) keys() []scoring.Dimension {
	keys := make([]scoring.Dimension, 0, len(w))
	for d := range w {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Aggregate returns the weighted mean of scores clamped to [0,100]. Weights
// are normalized here so scaling all of them by a positive constant does not
// change the result. Dimensions without a score count as 0.
func Aggregate(scores map[scoring.Dimension]float64, w Weights) float64 {
	total := w.total()
	if total <= 0 {
		return 0
	}

	var sum float64
	for _, d := range w.keys() {
		sum += w[d] * scores[d]
	}
	return clamp(sum / total)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
