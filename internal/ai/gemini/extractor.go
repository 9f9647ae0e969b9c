package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/sections"
)

//go:embed sections.md
var sectionsTemplate string

// Extractor splits resumes into sections with a generative model.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewExtractor(generator contentGenerator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{generator: generator, logger: logger}
}

// Extract never fails on missing sections; they come back empty.
func (e *Extractor) Extract(ctx context.Context, raw string) (sections.Sections, error) {
	if strings.TrimSpace(raw) == "" {
		return sections.Normalize(nil), nil
	}

	prompt := strings.ReplaceAll(sectionsTemplate, "{{RESUME}}", strings.TrimSpace(raw))
	e.logger.Debug("gemini sections request", zap.Int("prompt_length", utf8.RuneCountInString(prompt)))

	resp, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(resp)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini sections response: %w", err)
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = coerceString(v)
	}

	s := sections.Normalize(out)
	e.logger.Debug("gemini sections parsed", zap.Int("sections", len(s)))
	return s, nil
}
