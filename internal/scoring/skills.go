package scoring

import (
	"math"
	"time"

	"github.com/spigell/resource-matcher/internal/profile"
)

// Recency applied when a skill has no last-used date.
const unknownRecency = 0.5

// SkillBreakdown details a skill match. The per-skill slices run parallel to
// Matched.
type SkillBreakdown struct {
	Matched     []string  `json:"matched_skills"`
	Missing     []string  `json:"missing_skills"`
	Proficiency []float64 `json:"proficiency_scores"`
	Recency     []float64 `json:"recency_scores"`
	Experience  []float64 `json:"experience_scores"`
	Years       []float64 `json:"experience_years"`
}

// AverageProficiency returns the mean proficiency percentage of the matched skills.
func (b SkillBreakdown) AverageProficiency() (float64, bool) {
	if len(b.Proficiency) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range b.Proficiency {
		sum += p
	}
	return sum / float64(len(b.Proficiency)), true
}

// SkillMatch scores held skills against the required names. An empty
// requirement scores 0 with an empty breakdown. Each required name is matched
// by case-insensitive name and missing names contribute 0 to the average.
func SkillMatch(held []profile.Skill, required []string, now time.Time) (float64, SkillBreakdown) {
	if len(required) == 0 {
		return 0, SkillBreakdown{}
	}

	byName := make(map[string]profile.Skill, len(held))
	for _, s := range held {
		if _, dup := byName[s.Key()]; !dup {
			byName[s.Key()] = s
		}
	}

	b := SkillBreakdown{Matched: []string{}, Missing: []string{}}
	var total float64
	for _, name := range required {
		skill, ok := byName[profile.NormalizeName(name)]
		if !ok {
			b.Missing = append(b.Missing, name)
			continue
		}

		prof, rec, exp := skillRatios(skill, now)
		total += combine(prof, rec, exp)

		b.Matched = append(b.Matched, name)
		b.Proficiency = append(b.Proficiency, prof*100)
		b.Recency = append(b.Recency, rec*100)
		b.Experience = append(b.Experience, exp*100)
		b.Years = append(b.Years, skill.YearsExperience)
	}

	return clamp(total / float64(len(required))), b
}

// SkillScore returns the 0-100 sub-score of a single held skill.
func SkillScore(s profile.Skill, now time.Time) float64 {
	return combine(skillRatios(s, now))
}

func skillRatios(s profile.Skill, now time.Time) (prof, rec, exp float64) {
	return s.Proficiency.Ratio(), RecencyRatio(s.LastUsed, now), ExperienceRatio(s.YearsExperience)
}

func combine(prof, rec, exp float64) float64 {
	return 100 * (0.5*prof + 0.3*rec + 0.2*exp)
}

// RecencyRatio is a step function of days since the skill was last used.
func RecencyRatio(lastUsed *time.Time, now time.Time) float64 {
	if lastUsed == nil || lastUsed.IsZero() {
		return unknownRecency
	}

	// Whole elapsed days only.
	days := math.Floor(now.Sub(*lastUsed).Hours() / 24)
	switch {
	case days <= 30:
		return 1.0
	case days <= 90:
		return 0.8
	case days <= 180:
		return 0.6
	case days <= 365:
		return 0.4
	default:
		return 0.2
	}
}

// ExperienceRatio caps years of experience at five.
func ExperienceRatio(years float64) float64 {
	if years <= 0 {
		return 0
	}
	return math.Min(years/5, 1)
}
