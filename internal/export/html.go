package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/spigell/resource-matcher/internal/matching"
	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/scoring"
)

//go:embed report.html.tmpl
var reportTemplate string

var report = template.Must(template.New("report").Funcs(template.FuncMap{
	"score": displayScore,
	"dimScore": func(res *matching.MatchResult, d scoring.Dimension) string {
		if v, ok := res.Scores[d]; ok {
			return displayScore(v)
		}
		return "-"
	},
}).Parse(reportTemplate))

const (
	chartWidth   = 520
	chartHeight  = 200
	chartBuckets = 10
	barGap       = 4
)

type bar struct {
	Label  string
	Count  int
	X, Y   int
	Width  int
	Height int
}

type rankCount struct {
	Rank  ranking.Rank
	Count int
}

type view struct {
	Report
	Dims        []scoring.Dimension
	Ranks       []rankCount
	Bars        []bar
	ChartWidth  int
	ChartHeight int
}

func writeHTML(w io.Writer, r Report) error {
	counts := rankCounts(r)
	ranks := make([]rankCount, 0, len(ranking.Ranks()))
	for _, rank := range ranking.Ranks() {
		ranks = append(ranks, rankCount{Rank: rank, Count: counts[rank]})
	}

	return report.Execute(w, view{
		Report:      r,
		Dims:        r.Dimensions(),
		Ranks:       ranks,
		Bars:        histogram(r.Results),
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	})
}

// histogram buckets overall scores into ten bands of ten points. A score of
// 100 falls into the last band.
func histogram(results []*matching.MatchResult) []bar {
	counts := make([]int, chartBuckets)
	for _, res := range results {
		i := int(math.Floor(res.OverallScore / (100 / chartBuckets)))
		if i >= chartBuckets {
			i = chartBuckets - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}

	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}

	width := chartWidth / chartBuckets
	bars := make([]bar, chartBuckets)
	for i, c := range counts {
		h := 0
		if peak > 0 {
			h = c * (chartHeight - 20) / peak
		}
		bars[i] = bar{
			Label:  formatBand(i),
			Count:  c,
			X:      i*width + barGap/2,
			Y:      chartHeight - 20 - h,
			Width:  width - barGap,
			Height: h,
		}
	}
	return bars
}

// displayScore rounds for reading only. The JSON, CSV and XLSX exports keep
// full precision.
func displayScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatBand(i int) string {
	lo := i * (100 / chartBuckets)
	return fmt.Sprintf("%d-%d", lo, lo+100/chartBuckets)
}
