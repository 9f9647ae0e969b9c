// Package ranking combines dimension scores into an overall score and a
// discrete match rank, and orders match results.
package ranking

import (
	"fmt"
	"sort"
	"strings"
)

// Rank is the discrete tier of a match. Lower ordinals are better.
type Rank int

const (
	Perfect Rank = iota + 1
	Excellent
	Good
	Moderate
	Poor
)

var rankNames = map[Rank]string{
	Perfect:   "PERFECT",
	Excellent: "EXCELLENT",
	Good:      "GOOD",
	Moderate:  "MODERATE",
	Poor:      "POOR",
}

// Ranks lists every rank from best to worst.
func Ranks() []Rank {
	return []Rank{Perfect, Excellent, Good, Moderate, Poor}
}

// Ordinal returns PERFECT=1 through POOR=5.
func (r Rank) Ordinal() int {
	return int(r)
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

func (r Rank) MarshalText() ([]byte, error) {
	if _, ok := rankNames[r]; !ok {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	want := strings.ToUpper(strings.TrimSpace(string(text)))
	for rank, name := range rankNames {
		if name == want {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", text)
}

type threshold struct {
	rank                           Rank
	primary, experience, secondary float64
}

// Evaluated top down, first hit wins. Moderate ignores secondary skills.
var thresholds = []threshold{
	{rank: Perfect, primary: 90, experience: 80, secondary: 70},
	{rank: Excellent, primary: 80, experience: 70, secondary: 60},
	{rank: Good, primary: 60, experience: 50, secondary: 40},
	{rank: Moderate, primary: 40, experience: 30, secondary: 0},
}

// Classify derives the rank from the primary skill, secondary skill and
// experience scores only.
func Classify(primary, secondary, experience float64) Rank {
	for _, t := range thresholds {
		if primary >= t.primary && experience >= t.experience && secondary >= t.secondary {
			return t.rank
		}
	}
	return Poor
}

// SortByRank orders items by rank ordinal, best first, then by descending
// score. The sort is stable so equal items keep their input order.
func SortByRank[T any](items []T, key func(T) (Rank, float64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, si := key(items[i])
		rj, sj := key(items[j])
		if ri != rj {
			return ri < rj
		}
		return si > sj
	})
}

// SortByScore orders items by descending score, then by rank ordinal.
func SortByScore[T any](items []T, key func(T) (Rank, float64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, si := key(items[i])
		rj, sj := key(items[j])
		if si != sj {
			return si > sj
		}
		return ri < rj
	})
}
