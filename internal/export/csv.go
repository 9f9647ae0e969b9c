package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/spigell/resource-matcher/internal/matching"
	"github.com/spigell/resource-matcher/internal/scoring"
)

// header returns the tabular column names shared by CSV and XLSX.
func header(dims []scoring.Dimension) []string {
	out := []string{"requirement_id", "resource_id", "resource_name", "rank", "overall_score"}
	for _, d := range dims {
		out = append(out, string(d))
	}
	return append(out, "missing_primary_skills", "missing_secondary_skills", "recommendation", "error")
}

// row flattens a result into its tabular cells. Scores are rounded to two
// decimals.
func row(res *matching.MatchResult, dims []scoring.Dimension) []string {
	out := []string{
		res.RequirementID,
		res.ResourceID,
		res.ResourceName,
		res.Rank.String(),
		formatScore(res.OverallScore),
	}
	for _, d := range dims {
		if v, ok := res.Scores[d]; ok {
			out = append(out, formatScore(v))
			continue
		}
		out = append(out, "")
	}
	return append(out,
		strings.Join(res.Breakdowns.Primary.Missing, ", "),
		strings.Join(res.Breakdowns.Secondary.Missing, ", "),
		res.Recommendation,
		res.Error,
	)
}

// formatScore prints the shortest text that parses back to v.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCSV(w io.Writer, r Report) error {
	dims := r.Dimensions()
	cw := csv.NewWriter(w)

	if err := cw.Write(header(dims)); err != nil {
		return err
	}
	for _, res := range r.Results {
		if err := cw.Write(row(res, dims)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
