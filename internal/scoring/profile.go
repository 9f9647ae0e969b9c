package scoring

import (
	"math"
	"strings"

	"github.com/spigell/resource-matcher/internal/profile"
)

const (
	levelNotSpecified = "not specified"
	overqualified     = 85.0
	levelGapPenalty   = 25.0
	certBonus         = 10.0
	remoteTolerance   = 80.0
	adjacentWorkType  = 75.0
)

// ExperienceBreakdown details an experience match.
type ExperienceBreakdown struct {
	Level         string                  `json:"level,omitempty"`
	Specified     bool                    `json:"specified"`
	RequiredLevel profile.ExperienceLevel `json:"required_level,omitempty"`
	ResourceLevel profile.ExperienceLevel `json:"resource_level,omitempty"`
	WeightedYears float64                 `json:"weighted_experience"`
	TotalYears    float64                 `json:"raw_experience"`
}

// ExperienceMatch compares the proficiency-weighted years of the primary
// skills with the required level. No required level gives full credit.
func ExperienceMatch(r *profile.Resource, req *profile.Requirement) (float64, ExperienceBreakdown) {
	if !req.RequiredExperience.Specified() {
		return 100, ExperienceBreakdown{Level: levelNotSpecified}
	}

	weighted := WeightedYears(r.PrimarySkills)
	level := profile.LevelForYears(weighted)
	required := req.RequiredExperience

	var score float64
	switch gap := required.Ordinal() - level.Ordinal(); {
	case gap == 0:
		score = 100
	case gap > 0:
		score = math.Max(100-levelGapPenalty*float64(gap), 0)
	default:
		score = overqualified
	}

	return score, ExperienceBreakdown{
		Level:         level.String(),
		Specified:     true,
		RequiredLevel: required,
		ResourceLevel: level,
		WeightedYears: weighted,
		TotalYears:    r.TotalYearsExperience,
	}
}

// WeightedYears averages years of experience weighted by proficiency ratio.
func WeightedYears(skills []profile.Skill) float64 {
	var sum, weights float64
	for _, s := range skills {
		w := s.Proficiency.Ratio()
		sum += s.YearsExperience * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// CertificationBreakdown details a certification match.
type CertificationBreakdown struct {
	Required   []string `json:"required"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Additional []string `json:"additional"`
}

// CertificationMatch scores the share of required certifications held, plus a
// bonus when further certifications are held. No requirement gives full credit.
func CertificationMatch(held, required []string) (float64, CertificationBreakdown) {
	b := CertificationBreakdown{
		Required:   append([]string{}, required...),
		Matched:    []string{},
		Missing:    []string{},
		Additional: []string{},
	}

	wanted := make(map[string]struct{}, len(required))
	for _, c := range required {
		wanted[profile.NormalizeName(c)] = struct{}{}
	}
	have := make(map[string]struct{}, len(held))
	for _, c := range held {
		key := profile.NormalizeName(c)
		if _, dup := have[key]; dup {
			continue
		}
		have[key] = struct{}{}
		if _, ok := wanted[key]; !ok {
			b.Additional = append(b.Additional, c)
		}
	}

	if len(required) == 0 {
		return 100, b
	}

	for _, c := range required {
		if _, ok := have[profile.NormalizeName(c)]; ok {
			b.Matched = append(b.Matched, c)
		} else {
			b.Missing = append(b.Missing, c)
		}
	}

	score := float64(len(b.Matched)) / float64(len(required)) * 100
	if len(b.Additional) > 0 {
		score = math.Min(score+certBonus, 100)
	}
	return score, b
}

// LocationMatch gives full credit for the same location and partial credit
// when the requirement is remote.
func LocationMatch(preferred, location string, workType profile.WorkType) float64 {
	if strings.EqualFold(strings.TrimSpace(preferred), strings.TrimSpace(location)) {
		return 100
	}
	if workType.Normalize() == profile.Remote {
		return remoteTolerance
	}
	return 0
}

// WorkTypeMatch gives full credit for the same arrangement and partial credit
// between hybrid and onsite.
func WorkTypeMatch(preferred, required profile.WorkType) float64 {
	p, r := preferred.Normalize(), required.Normalize()
	switch {
	case p == r:
		return 100
	case p == profile.Hybrid && r == profile.Onsite, p == profile.Onsite && r == profile.Hybrid:
		return adjacentWorkType
	default:
		return 0
	}
}
