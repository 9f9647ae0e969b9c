package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Judge asks a generative model to rate the similarity of two texts.
// Wrap it with similarity.Memoized to keep scores stable within a session.
type Judge struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewJudge(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Judge{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Similarity returns the model's score in [0,1]. Scores on a 0-100 scale are
// rescaled.
func (j *Judge) Similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}

	prompt := buildPrompt(a, b)

	j.logger.Debug("gemini similarity request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return 0, err
	}

	j.logger.Debug("gemini similarity response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	score, reason, err := parseResponse(raw)
	if err != nil {
		return 0, err
	}

	j.logger.Debug("gemini similarity parsed", zap.Float64("similarity", score), zap.String("reason", reason))
	return score, nil
}

func buildPrompt(a, b string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Text A:\n{{TEXT_A}}\n\nText B:\n{{TEXT_B}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{TEXT_A}}", strings.TrimSpace(a))
	prompt = strings.ReplaceAll(prompt, "{{TEXT_B}}", strings.TrimSpace(b))
	return prompt
}

func parseResponse(raw string) (float64, string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return 0, "", fmt.Errorf("parse gemini response: %w", err)
	}

	value, ok := data["similarity"]
	if !ok {
		value = data["score"]
	}
	score := coerceFloat(value)
	if math.IsNaN(score) {
		return 0, "", fmt.Errorf("gemini response has no numeric similarity: %s", cleaned)
	}
	if score > 1 && score <= 100 {
		score /= 100
	}
	score = math.Max(0, math.Min(1, score))

	return score, coerceString(data["reason"]), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
