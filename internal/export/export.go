// Package export serializes match results. Writers never reorder or rescore
// the results they are given.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/resource-matcher/internal/matching"
	"github.com/spigell/resource-matcher/internal/scoring"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	HTML Format = "html"
)

// baseName is the file name, without extension, written by WriteFile.
const baseName = "latest_matches"

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{JSON, CSV, XLSX, HTML}
}

// ParseFormat resolves a format name. "excel" is accepted for XLSX and
// "visual" for HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "html", "visual":
		return HTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FileName is the fixed file name used for f.
func (f Format) FileName() string {
	return baseName + "." + string(f)
}

// Report is the envelope shared by every format.
type Report struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Count       int                     `json:"count"`
	Results     []*matching.MatchResult `json:"results"`
}

// NewReport wraps results with a fresh run id.
func NewReport(results []*matching.MatchResult, generatedAt time.Time) Report {
	if results == nil {
		results = []*matching.MatchResult{}
	}
	return Report{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt.UTC(),
		Count:       len(results),
		Results:     results,
	}
}

// Dimensions returns the dimensions scored in at least one result, in report order.
func (r Report) Dimensions() []scoring.Dimension {
	present := map[scoring.Dimension]bool{}
	for _, res := range r.Results {
		for d := range res.Scores {
			present[d] = true
		}
	}

	out := make([]scoring.Dimension, 0, len(present))
	for _, d := range scoring.Dimensions() {
		if present[d] {
			out = append(out, d)
		}
	}
	return out
}

// Write serializes r in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case JSON:
		return writeJSON(w, r)
	case CSV:
		return writeCSV(w, r)
	case XLSX:
		return writeXLSX(w, r)
	case HTML:
		return writeHTML(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// WriteFile writes r into dir under the fixed file name of f, replacing a
// previous export of the same format. It returns the written path.
func WriteFile(dir string, f Format, r Report) (string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, f.FileName())
	tmp, err := os.CreateTemp(dir, "."+baseName+"-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, f, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s export: %w", f, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replacing %s: %w", path, err)
	}
	return path, nil
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
