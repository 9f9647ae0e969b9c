// Package dataset loads resources, requirements and weights from YAML or
// JSON files.
package dataset

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resource-matcher/internal/profile"
)

// Format of a dataset file.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from the file extension. Unknown extensions are
// read as YAML, which also accepts JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Dataset is the content of a dataset file.
type Dataset struct {
	Resources    []*profile.Resource    `mapstructure:"resources"`
	Requirements []*profile.Requirement `mapstructure:"requirements"`
	// Weights keyed by dimension name. Parsed by ranking.ParseWeights.
	Weights map[string]float64 `mapstructure:"weights"`
}

// Requirement returns the requirement with id.
func (d *Dataset) Requirement(id string) (*profile.Requirement, bool) {
	for _, r := range d.Requirements {
		if r != nil && r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// RequirementIDs lists requirement ids in file order.
func (d *Dataset) RequirementIDs() []string {
	out := make([]string, 0, len(d.Requirements))
	for _, r := range d.Requirements {
		if r != nil {
			out = append(out, r.ID)
		}
	}
	return out
}

// LoadFile reads a dataset from path.
func LoadFile(path string, logger *zap.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	d, err := Load(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}

	if logger != nil {
		logger.Info("dataset loaded",
			zap.String("path", path),
			zap.Int("resources", len(d.Resources)),
			zap.Int("requirements", len(d.Requirements)),
		)
	}
	return d, nil
}

// Load decodes a dataset. Records are not validated here; the matching
// engine validates every record before scoring it.
func Load(r io.Reader, format Format) (*Dataset, error) {
	raw := map[string]any{}

	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	}

	d := &Dataset{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeHook,
			textHook,
		),
		WeaklyTypedInput: true,
		Result:           d,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	for _, res := range d.Resources {
		if res == nil {
			continue
		}
		res.PreferredWorkType = res.PreferredWorkType.Normalize()
		normalizeSkills(res.PrimarySkills)
		normalizeSkills(res.SecondarySkills)
	}
	for _, req := range d.Requirements {
		if req != nil {
			req.WorkType = req.WorkType.Normalize()
		}
	}

	return d, nil
}

func normalizeSkills(skills []profile.Skill) {
	for i := range skills {
		skills[i].Category = profile.Category(strings.ToUpper(strings.TrimSpace(string(skills[i].Category))))
	}
}

var timeType = reflect.TypeOf(time.Time{})

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func timeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}

	s := strings.TrimSpace(reflect.ValueOf(data).String())
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as a date", s)
}

// textHook decodes strings into types implementing encoding.TextUnmarshaler,
// such as the proficiency and experience levels.
func textHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	ptr := reflect.New(to)
	u, ok := ptr.Interface().(encoding.TextUnmarshaler)
	if !ok {
		return data, nil
	}
	if err := u.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}
