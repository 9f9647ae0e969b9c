package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/utils"
)

const (
	defaultEmbeddingModel  = "text-embedding-004"
	defaultGenerationModel = "gemini-2.5-flash"
	defaultMaxRetries      = 2
	defaultBackoff         = time.Second

	providerName = "gemini"
)

// models is the subset of genai.Models used by the client.
type models interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the Gemini client.
type Config struct {
	APIKey          string
	EmbeddingModel  string
	GenerationModel string
	// MaxRetries below zero selects the default; zero disables retries.
	MaxRetries int
	// Backoff is the base delay between retries. Zero selects the default.
	Backoff time.Duration
}

// Client calls the Gemini API for embeddings and text generation. Temporary
// API failures are retried with linear backoff.
type Client struct {
	models          models
	embeddingModel  string
	generationModel string
	maxRetries      int
	backoff         time.Duration
	logger          *zap.Logger
}

// New creates a client configured for the Gemini API backend.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, cfg, log), nil
}

func newClient(m models, cfg Config, log *zap.Logger) *Client {
	c := &Client{
		models:          m,
		embeddingModel:  strings.TrimSpace(cfg.EmbeddingModel),
		generationModel: strings.TrimSpace(cfg.GenerationModel),
		maxRetries:      cfg.MaxRetries,
		backoff:         cfg.Backoff,
	}
	if c.embeddingModel == "" {
		c.embeddingModel = defaultEmbeddingModel
	}
	if c.generationModel == "" {
		c.generationModel = defaultGenerationModel
	}
	if c.maxRetries < 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	c.logger = logger.WithCommonFields(log, providerName, c.embeddingModel)
	return c
}

// Embed returns the embedding vector of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text to embed must not be empty")
	}

	var values []float32
	err := c.retry(ctx, "embed content", func() error {
		resp, err := c.models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
			return errors.New("gemini api returned empty embedding")
		}
		values = resp.Embeddings[0].Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// GenerateContent sends the prompt and returns the joined text of the response.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var output string
	err := c.retry(ctx, "generate content", func() error {
		resp, err := c.models.GenerateContent(ctx, c.generationModel, genai.Text(prompt), generationConfig())
		if err != nil {
			return err
		}
		output = responseText(resp)
		if output == "" {
			return errors.New("gemini api returned empty response")
		}
		return nil
	})
	return output, err
}

// Scores and sections must not change between calls with the same prompt.
func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.generationModel
}

func (c *Client) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying gemini request",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if waitErr := utils.WaitFor(ctx, time.Duration(attempt)*c.backoff); waitErr != nil {
				return fmt.Errorf("%s: %w", op, waitErr)
			}
		}

		err = fn()
		if err == nil || !temporary(err) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func temporary(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
