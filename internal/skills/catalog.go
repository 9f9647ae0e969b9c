package skills

import (
	"math"
	"strings"
	"sync"

	"github.com/spigell/resource-matcher/internal/profile"
)

// Catalog is a registry of known skills keyed by case-insensitive name.
// It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	skills []profile.Skill
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Add inserts the skill or replaces an existing one with the same name.
// A replaced skill moves to the end of the listing order.
func (c *Catalog) Add(skill profile.Skill) {
	key := skill.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.skills[:0]
	for _, s := range c.skills {
		if s.Key() != key {
			kept = append(kept, s)
		}
	}
	c.skills = append(kept, skill)
}

// Get returns the skill registered under name.
func (c *Catalog) Get(name string) (profile.Skill, bool) {
	key := profile.NormalizeName(name)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.skills {
		if s.Key() == key {
			return s, true
		}
	}
	return profile.Skill{}, false
}

// Len returns the number of registered skills.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.skills)
}

// All returns a copy of every registered skill.
func (c *Catalog) All() []profile.Skill {
	return c.filter(func(profile.Skill) bool { return true })
}

func (c *Catalog) ByCategory(category profile.Category) []profile.Skill {
	return c.filter(func(s profile.Skill) bool { return s.Category == category })
}

func (c *Catalog) ByLevel(level profile.ProficiencyLevel) []profile.Skill {
	return c.filter(func(s profile.Skill) bool { return s.Proficiency == level })
}

// ByTags returns skills carrying any of the tags, or all of them when matchAll is set.
func (c *Catalog) ByTags(tags []string, matchAll bool) []profile.Skill {
	return c.filter(tagMatcher(tags, matchAll))
}

// ByAlias returns skills with an alias equal to alias, ignoring case.
func (c *Catalog) ByAlias(alias string) []profile.Skill {
	want := profile.NormalizeName(alias)
	return c.filter(func(s profile.Skill) bool {
		for _, a := range s.Aliases {
			if profile.NormalizeName(a) == want {
				return true
			}
		}
		return false
	})
}

// ByExperienceRange returns skills whose years of experience fall in [min, max].
func (c *Catalog) ByExperienceRange(min, max float64) []profile.Skill {
	return c.filter(func(s profile.Skill) bool {
		return s.YearsExperience >= min && s.YearsExperience <= max
	})
}

// Criteria combines several catalog filters. Empty fields do not filter.
type Criteria struct {
	Categories   []profile.Category
	Levels       []profile.ProficiencyLevel
	Tags         []string
	MatchAllTags bool
	MinYears     float64
	// MaxYears of zero means no upper bound.
	MaxYears float64
}

// ByCriteria returns skills satisfying every criterion at once.
func (c *Catalog) ByCriteria(cr Criteria) []profile.Skill {
	maxYears := cr.MaxYears
	if maxYears <= 0 {
		maxYears = math.Inf(1)
	}
	tags := tagMatcher(cr.Tags, cr.MatchAllTags)

	return c.filter(func(s profile.Skill) bool {
		if len(cr.Categories) > 0 && !contains(cr.Categories, s.Category) {
			return false
		}
		if len(cr.Levels) > 0 && !contains(cr.Levels, s.Proficiency) {
			return false
		}
		if len(cr.Tags) > 0 && !tags(s) {
			return false
		}
		return s.YearsExperience >= cr.MinYears && s.YearsExperience <= maxYears
	})
}

// Search returns skills whose name, description, tags or aliases contain the
// query, ignoring case. Each skill appears at most once.
func (c *Catalog) Search(query string) []profile.Skill {
	q := profile.NormalizeName(query)
	if q == "" {
		return nil
	}
	return c.filter(func(s profile.Skill) bool {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Description), q) {
			return true
		}
		for _, v := range s.Tags {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		for _, v := range s.Aliases {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	})
}

// SkillGaps returns the required names not present in held.
func (c *Catalog) SkillGaps(required, held []string) []string {
	return Gaps(required, held)
}

// Gaps is the case-insensitive set difference required minus held. The result
// keeps the order and spelling of required and drops duplicate entries.
func Gaps(required, held []string) []string {
	have := make(map[string]struct{}, len(held))
	for _, h := range held {
		have[profile.NormalizeName(h)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required))
	gaps := []string{}
	for _, r := range required {
		key := profile.NormalizeName(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; !ok {
			gaps = append(gaps, r)
		}
	}
	return gaps
}

func (c *Catalog) filter(keep func(profile.Skill) bool) []profile.Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []profile.Skill{}
	for _, s := range c.skills {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func tagMatcher(tags []string, matchAll bool) func(profile.Skill) bool {
	want := make([]string, 0, len(tags))
	for _, t := range tags {
		want = append(want, profile.NormalizeName(t))
	}

	return func(s profile.Skill) bool {
		if len(want) == 0 {
			return false
		}
		have := make(map[string]struct{}, len(s.Tags))
		for _, t := range s.Tags {
			have[profile.NormalizeName(t)] = struct{}{}
		}
		for _, t := range want {
			_, ok := have[t]
			if matchAll && !ok {
				return false
			}
			if !matchAll && ok {
				return true
			}
		}
		return matchAll
	}
}

func contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
