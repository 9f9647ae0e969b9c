package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/ai/gemini"
	"github.com/spigell/resource-matcher/internal/dataset"
	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/matching"
	"github.com/spigell/resource-matcher/internal/metrics"
	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/secrets"
	"github.com/spigell/resource-matcher/internal/sections"
	"github.com/spigell/resource-matcher/internal/similarity"
	"github.com/spigell/resource-matcher/internal/skills"
)

const (
	providerNone            = "none"
	providerTokenOverlap    = "token-overlap"
	providerGeminiEmbedding = "gemini-embedding"
	providerGeminiJudge     = "gemini-judge"
)

// session holds everything a matching command needs.
type session struct {
	config  *Config
	logger  *zap.Logger
	dataset *dataset.Dataset
	engine  *matching.Engine
	closers []func() error
}

func (s *session) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("closing resources", zap.Error(err))
		}
	}
}

// newSession loads the dataset and builds an engine with every resource and
// requirement registered. Invalid records are logged and skipped here; batch
// runs still report them as error records.
func newSession(ctx context.Context, log *zap.Logger, reg prometheus.Registerer) (*session, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	if config.Dataset == "" {
		return nil, fmt.Errorf("dataset is required (set --dataset or the 'dataset' key)")
	}

	data, err := dataset.LoadFile(config.Dataset, log)
	if err != nil {
		return nil, err
	}

	s := &session{config: config, logger: log, dataset: data}

	catalog, err := loadCatalog(config.Catalog, log)
	if err != nil {
		return nil, err
	}

	provider, extractor, closers, err := newSimilarity(ctx, config.Similarity, log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closers...)

	weights, err := pickWeights(config.Weights, data.Weights)
	if err != nil {
		// Resolve falls back to defaults and logs the reason.
		log.Warn("ignoring configured weights", zap.Error(err))
		weights = nil
	}

	order, err := matching.ParseOrder(config.BatchOrder)
	if err != nil {
		return nil, err
	}

	opts := matching.DefaultOptions()
	opts.Weights = weights
	opts.Similarity = provider
	opts.Extractor = extractor
	opts.Catalog = catalog
	opts.BatchOrder = order
	opts.Logger = log
	if config.Concurrency > 0 {
		opts.Concurrency = config.Concurrency
	}
	if reg != nil {
		opts.Metrics = metrics.New(reg)
	}

	s.engine = matching.New(opts)

	for _, r := range data.Resources {
		if err := s.engine.AddResource(r); err != nil {
			log.Warn("skipping resource", zap.Error(err))
		}
	}
	for _, r := range data.Requirements {
		if err := s.engine.AddRequirement(r); err != nil {
			log.Warn("skipping requirement", zap.Error(err))
		}
	}

	return s, nil
}

// pickWeights prefers weights from the config over weights from the dataset.
func pickWeights(configured, fromDataset map[string]float64) (ranking.Weights, error) {
	raw := configured
	if len(raw) == 0 {
		raw = fromDataset
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return ranking.ParseWeights(raw)
}

func loadCatalog(path string, log *zap.Logger) (*skills.Catalog, error) {
	if path == "" {
		return skills.Default(), nil
	}
	return skills.LoadFile(path, log)
}

func newSimilarity(ctx context.Context, cfg *SimilarityConfig, log *zap.Logger) (similarity.Provider, sections.Extractor, []func() error, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	switch provider {
	case "", providerNone:
		return nil, nil, nil, nil
	case providerTokenOverlap:
		return similarity.TokenOverlap{}, nil, nil, nil
	case providerGeminiEmbedding, providerGeminiJudge:
	default:
		return nil, nil, nil, fmt.Errorf("unsupported similarity provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gcfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: gcfg.APIKey,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w (set similarity.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:          apiKey,
		EmbeddingModel:  gcfg.EmbeddingModel,
		GenerationModel: gcfg.Model,
		MaxRetries:      gcfg.MaxRetries,
		Backoff:         gcfg.Backoff,
	}, log)
	if err != nil {
		return nil, nil, nil, err
	}

	cache, closers, err := newCache(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	providerLog := logger.WithCommonFields(log, provider, client.Model())

	var p similarity.Provider
	if provider == providerGeminiEmbedding {
		p = similarity.NewEmbeddingProvider(client, cache, providerLog)
	} else {
		p = similarity.NewMemoized(gemini.NewJudge(client, providerLog, gcfg.MaxLogLength), cache)
	}

	var extractor sections.Extractor
	if cfg.ExtractSections {
		extractor = gemini.NewExtractor(client, providerLog)
	}

	log.Info("similarity provider configured",
		zap.String("provider", provider),
		zap.String("model", client.Model()),
		zap.Bool("extract_sections", cfg.ExtractSections),
	)
	return p, extractor, closers, nil
}

func newCache(ctx context.Context, cfg *SimilarityConfig, log *zap.Logger) (similarity.Cache, []func() error, error) {
	if cfg.Redis != nil && cfg.Redis.Address != "" {
		cache, err := similarity.NewRedisCache(ctx, similarity.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return cache, []func() error{cache.Close}, nil
	}

	if cfg.CacheSize <= 0 {
		return similarity.NopCache{}, nil, nil
	}
	cache, err := similarity.NewLRUCache(cfg.CacheSize)
	if err != nil {
		return nil, nil, err
	}
	return cache, nil, nil
}
