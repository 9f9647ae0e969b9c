package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resource-matcher/internal/ranking"
)

const (
	summarySheet = "Summary"
	matchesSheet = "Matches"
)

func writeXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := summary(f, r, headerStyle); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := matches(f, r, headerStyle); err != nil {
		return fmt.Errorf("matches sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func summary(f *excelize.File, r Report, headerStyle int) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return err
	}

	rows := [][]any{
		{"Run", r.RunID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Results", r.Count},
		{},
		{"Rank", "Count"},
	}
	counts := rankCounts(r)
	for _, rank := range ranking.Ranks() {
		rows = append(rows, []any{rank.String(), counts[rank]})
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
	}

	// "Rank" / "Count" header row.
	return f.SetCellStyle(summarySheet, "A5", "B5", headerStyle)
}

func matches(f *excelize.File, r Report, headerStyle int) error {
	dims := r.Dimensions()
	cols := header(dims)

	head := make([]any, len(cols))
	for i, c := range cols {
		head[i] = c
	}
	if err := f.SetSheetRow(matchesSheet, "A1", &head); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(matchesSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, res := range r.Results {
		values := []any{res.RequirementID, res.ResourceID, res.ResourceName, res.Rank.String(), res.OverallScore}
		for _, d := range dims {
			if v, ok := res.Scores[d]; ok {
				values = append(values, v)
				continue
			}
			values = append(values, nil)
		}
		cells := row(res, dims)
		for _, text := range cells[len(cells)-4:] {
			values = append(values, text)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(matchesSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetPanes(matchesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func rankCounts(r Report) map[ranking.Rank]int {
	out := map[ranking.Rank]int{}
	for _, res := range r.Results {
		out[res.Rank]++
	}
	return out
}
