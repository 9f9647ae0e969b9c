package matching

import (
	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/scoring"
)

// MatchResult is the scored outcome of one resource against one requirement.
// It is never modified after creation.
type MatchResult struct {
	RequirementID  string                        `json:"requirement_id"`
	ResourceID     string                        `json:"resource_id"`
	ResourceName   string                        `json:"resource_name,omitempty"`
	OverallScore   float64                       `json:"overall_score"`
	Rank           ranking.Rank                  `json:"rank"`
	Scores         map[scoring.Dimension]float64 `json:"per_dimension_scores"`
	Breakdowns     Breakdowns                    `json:"breakdowns"`
	Failures       map[scoring.Dimension]string  `json:"failures,omitempty"`
	Recommendation string                        `json:"recommendation,omitempty"`
	Error          string                        `json:"error,omitempty"`
}

// Breakdowns holds the structured detail of every scored dimension.
type Breakdowns struct {
	Primary        scoring.SkillBreakdown         `json:"primary_skills"`
	Secondary      scoring.SkillBreakdown         `json:"secondary_skills"`
	Experience     scoring.ExperienceBreakdown    `json:"experience"`
	Certifications scoring.CertificationBreakdown `json:"certifications"`
	Semantic       *scoring.SemanticBreakdown     `json:"semantic,omitempty"`
}

// Failed reports whether the result is an error record.
func (r *MatchResult) Failed() bool {
	return r.Error != ""
}

// Score returns the score of dimension d.
func (r *MatchResult) Score(d scoring.Dimension) float64 {
	return r.Scores[d]
}

// errorResult builds the record reported for a pair that could not be scored.
// It ranks POOR with every score at zero.
func errorResult(requirementID, resourceID, resourceName string, err error) *MatchResult {
	scores := make(map[scoring.Dimension]float64, len(baseDimensions))
	for _, d := range baseDimensions {
		scores[d] = 0
	}
	return &MatchResult{
		RequirementID: requirementID,
		ResourceID:    resourceID,
		ResourceName:  resourceName,
		Rank:          ranking.Poor,
		Scores:        scores,
		Error:         err.Error(),
	}
}

func rankKey(r *MatchResult) (ranking.Rank, float64) {
	return r.Rank, r.OverallScore
}

// SortByRank orders results best rank first, then by descending overall score.
func SortByRank(results []*MatchResult) {
	ranking.SortByRank(results, rankKey)
}

// SortByScore orders results by descending overall score, then by rank.
func SortByScore(results []*MatchResult) {
	ranking.SortByScore(results, rankKey)
}
