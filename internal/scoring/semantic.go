package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resource-matcher/internal/profile"
	"github.com/spigell/resource-matcher/internal/similarity"
)

// SemanticBreakdown details a semantic match.
type SemanticBreakdown struct {
	Similarity float64 `json:"similarity"`
	Note       string  `json:"note,omitempty"`
}

// SemanticMatch scores the similarity between the requirement description and
// the resource bio. A provider error yields a failed result.
func SemanticMatch(ctx context.Context, p similarity.Provider, r *profile.Resource, req *profile.Requirement) Result {
	return SemanticTextMatch(ctx, p, RequirementText(req), r.Bio)
}

// SemanticTextMatch scores the similarity of a requirement text and a profile
// text. Empty text on either side is no evidence and scores 0.
func SemanticTextMatch(ctx context.Context, p similarity.Provider, requirementText, profileText string) Result {
	requirementText = strings.TrimSpace(requirementText)
	profileText = strings.TrimSpace(profileText)
	if requirementText == "" || profileText == "" {
		return Success(Semantic, 0, SemanticBreakdown{Note: "no text to compare"})
	}

	sim, err := p.Similarity(ctx, requirementText, profileText)
	if err != nil {
		return Failure(Semantic, fmt.Errorf("similarity: %w", err))
	}
	sim = similarity.Clamp(sim)
	return Success(Semantic, 100*sim, SemanticBreakdown{Similarity: sim})
}

// RequirementText is the text compared with a resource bio.
func RequirementText(req *profile.Requirement) string {
	parts := []string{strings.TrimSpace(req.Title), strings.TrimSpace(req.Description)}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
