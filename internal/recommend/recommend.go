// Package recommend turns score breakdowns into an ordered, human readable
// gap analysis.
package recommend

import (
	"fmt"
	"strings"

	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/scoring"
)

// Separator joins the statements of a recommendation.
const Separator = " | "

var headlines = map[ranking.Rank]string{
	ranking.Perfect:   "Strongly recommended - Perfect match",
	ranking.Excellent: "Recommended - Excellent match",
	ranking.Good:      "Consider - Good match",
	ranking.Moderate:  "Review - Moderate match",
	ranking.Poor:      "Not recommended - Poor match",
}

// Input carries the breakdowns a recommendation is built from.
type Input struct {
	Rank           ranking.Rank
	Primary        scoring.SkillBreakdown
	Secondary      scoring.SkillBreakdown
	Experience     scoring.ExperienceBreakdown
	Certifications scoring.CertificationBreakdown
}

// Statements returns the recommendation statements in their fixed order:
// headline, primary skill gaps, secondary skill gaps, experience, missing
// certifications and additional certifications. Empty sections are omitted.
func Statements(in Input) []string {
	headline, ok := headlines[in.Rank]
	if !ok {
		headline = headlines[ranking.Poor]
	}
	out := []string{headline}

	out = append(out, skillGaps("Missing primary skills", "Average proficiency in matched skills", in.Primary)...)
	out = append(out, skillGaps("Missing secondary skills", "Average proficiency in matched secondary skills", in.Secondary)...)

	if exp := in.Experience; exp.Specified {
		if exp.ResourceLevel != exp.RequiredLevel {
			out = append(out, fmt.Sprintf("Experience level: %s (Required: %s)", exp.ResourceLevel, exp.RequiredLevel))
		}
		out = append(out, fmt.Sprintf("Weighted experience: %.1f years", exp.WeightedYears))
	}

	if certs := in.Certifications; len(certs.Missing) > 0 {
		out = append(out, "Missing certifications: "+strings.Join(certs.Missing, ", "))
	}
	if certs := in.Certifications; len(certs.Additional) > 0 {
		out = append(out, "Additional relevant certifications: "+strings.Join(certs.Additional, ", "))
	}

	return out
}

// Generate joins Statements with Separator.
func Generate(in Input) string {
	return strings.Join(Statements(in), Separator)
}

func skillGaps(missingLabel, averageLabel string, b scoring.SkillBreakdown) []string {
	if len(b.Missing) == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("%s: %s", missingLabel, strings.Join(b.Missing, ", "))}
	if avg, ok := b.AverageProficiency(); ok {
		out = append(out, fmt.Sprintf("%s: %.1f%%", averageLabel, avg))
	}
	return out
}
