// Package scoring holds the per-dimension calculators of a match. Every
// calculator is a total function returning a score in [0,100] and a
// breakdown describing how the score was reached.
package scoring

import (
	"fmt"
	"math"
)

// Dimension names one scored aspect of a match.
type Dimension string

const (
	PrimarySkills   Dimension = "primary_skills"
	SecondarySkills Dimension = "secondary_skills"
	Experience      Dimension = "experience"
	Location        Dimension = "location"
	WorkType        Dimension = "work_type"
	Certifications  Dimension = "certifications"
	Semantic        Dimension = "semantic"
)

// Dimensions lists every dimension in report order.
func Dimensions() []Dimension {
	return []Dimension{PrimarySkills, SecondarySkills, Experience, Location, WorkType, Certifications, Semantic}
}

// ParseDimension resolves a dimension name.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Result is the outcome of one calculator. A failed result carries Err and a
// zero score so failures stay distinguishable from a genuine zero.
type Result struct {
	Dimension Dimension
	Score     float64
	Breakdown any
	Err       error
}

func Success(d Dimension, score float64, breakdown any) Result {
	return Result{Dimension: d, Score: clamp(score), Breakdown: breakdown}
}

func Failure(d Dimension, err error) Result {
	return Result{Dimension: d, Err: err}
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Card collects the results of one resource and requirement pair.
type Card struct {
	results []Result
}

// Add stores r, replacing an earlier result for the same dimension.
func (c *Card) Add(r Result) {
	for i := range c.results {
		if c.results[i].Dimension == r.Dimension {
			c.results[i] = r
			return
		}
	}
	c.results = append(c.results, r)
}

func (c *Card) Get(d Dimension) (Result, bool) {
	for _, r := range c.results {
		if r.Dimension == d {
			return r, true
		}
	}
	return Result{}, false
}

// Score returns the score of d, or 0 when it was not scored.
func (c *Card) Score(d Dimension) float64 {
	r, _ := c.Get(d)
	return r.Score
}

// Scores returns the score of every scored dimension, failures included as 0.
func (c *Card) Scores() map[Dimension]float64 {
	out := make(map[Dimension]float64, len(c.results))
	for _, r := range c.results {
		out[r.Dimension] = r.Score
	}
	return out
}

// Dimensions returns the scored dimensions in insertion order.
func (c *Card) Dimensions() []Dimension {
	out := make([]Dimension, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r.Dimension)
	}
	return out
}

// Failures maps each failed dimension to its reason.
func (c *Card) Failures() map[Dimension]string {
	out := map[Dimension]string{}
	for _, r := range c.results {
		if r.Failed() {
			out[r.Dimension] = r.Err.Error()
		}
	}
	return out
}

func (c *Card) Results() []Result {
	return append([]Result(nil), c.results...)
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
