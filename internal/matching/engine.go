// Package matching scores resources against requirements, ranks the results
// and runs batch matches over a bounded worker pool.
package matching

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/filtering"
	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/metrics"
	"github.com/spigell/resource-matcher/internal/profile"
	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/recommend"
	"github.com/spigell/resource-matcher/internal/scoring"
	"github.com/spigell/resource-matcher/internal/sections"
	"github.com/spigell/resource-matcher/internal/similarity"
	"github.com/spigell/resource-matcher/internal/skills"
)

// ErrRequirementNotFound is returned by FindMatches for an unknown requirement id.
var ErrRequirementNotFound = errors.New("requirement not found")

// Dimensions scored for every pair. Semantic is added when a similarity
// provider is configured.
var baseDimensions = []scoring.Dimension{
	scoring.PrimarySkills,
	scoring.SecondarySkills,
	scoring.Experience,
	scoring.Location,
	scoring.WorkType,
	scoring.Certifications,
}

// Order selects how BatchMatch sorts its results.
type Order int

const (
	// OrderByRank sorts by rank ordinal, then by descending overall score.
	OrderByRank Order = iota
	// OrderByScore sorts by descending overall score, then by rank ordinal.
	OrderByScore
)

// ParseOrder resolves "rank" or "score".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "rank":
		return OrderByRank, nil
	case "score":
		return OrderByScore, nil
	}
	return OrderByRank, fmt.Errorf("unknown batch order %q", s)
}

// Options configures an Engine. Start from DefaultOptions.
type Options struct {
	// Weights of the overall score. Nil or invalid weights fall back to
	// ranking.DefaultWeights.
	Weights ranking.Weights
	// Similarity enables the semantic dimension when set.
	Similarity similarity.Provider
	// Extractor splits Resource.Resume into sections for resources without a
	// bio. Without it the raw resume is compared. Each resume is extracted
	// once per engine.
	Extractor sections.Extractor
	// Catalog canonicalizes skill names through catalog names and aliases when set.
	Catalog *skills.Catalog
	// Concurrency bounds the BatchMatch worker pool.
	Concurrency int
	BatchOrder  Order
	// Now is the reference time for skill recency.
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	return Options{
		Concurrency: runtime.NumCPU(),
		BatchOrder:  OrderByRank,
		Now:         time.Now,
		Logger:      zap.NewNop(),
	}
}

// Engine scores resources against requirements. Registered records are read
// only while matching, so all methods are safe for concurrent use.
type Engine struct {
	opts    Options
	weights ranking.Weights
	log     *zap.Logger

	mu           sync.RWMutex
	resources    []*profile.Resource
	resourceIdx  map[string]int
	requirements map[string]*profile.Requirement
}

// New creates an engine. Zero option fields take their defaults and weights
// are resolved once here.
func New(opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	if _, cached := opts.Extractor.(*sections.Cached); opts.Extractor != nil && !cached {
		opts.Extractor = sections.NewCached(opts.Extractor)
	}

	dims := append([]scoring.Dimension(nil), baseDimensions...)
	if opts.Similarity != nil {
		dims = append(dims, scoring.Semantic)
	}

	e := &Engine{
		opts:         opts,
		weights:      ranking.Resolve(opts.Weights, dims, opts.Logger),
		log:          opts.Logger,
		resourceIdx:  map[string]int{},
		requirements: map[string]*profile.Requirement{},
	}

	e.log.Debug("matching engine created",
		zap.Int("concurrency", opts.Concurrency),
		zap.Any("weights", e.weights),
	)
	return e
}

// Weights returns the normalized weights in use.
func (e *Engine) Weights() ranking.Weights {
	out := make(ranking.Weights, len(e.weights))
	for d, w := range e.weights {
		out[d] = w
	}
	return out
}

// AddResource validates and registers r, replacing a resource with the same id.
func (e *Engine) AddResource(r *profile.Resource) error {
	if err := profile.ValidateResource(r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if i, ok := e.resourceIdx[r.ID]; ok {
		e.resources[i] = r
		return nil
	}
	e.resourceIdx[r.ID] = len(e.resources)
	e.resources = append(e.resources, r)
	return nil
}

// AddRequirement validates and registers r, replacing a requirement with the same id.
func (e *Engine) AddRequirement(r *profile.Requirement) error {
	if err := profile.ValidateRequirement(r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.requirements[r.ID] = r
	return nil
}

// Requirement returns the registered requirement with id.
func (e *Engine) Requirement(id string) (*profile.Requirement, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.requirements[id]
	return r, ok
}

// Resources returns the registered resources in registration order.
func (e *Engine) Resources() []*profile.Resource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*profile.Resource(nil), e.resources...)
}

// Match validates both records and scores a single pair. The result carries a
// recommendation.
func (e *Engine) Match(ctx context.Context, req *profile.Requirement, res *profile.Resource) (*MatchResult, error) {
	if err := profile.ValidateRequirement(req); err != nil {
		e.opts.Metrics.ObserveFailure("validation", "")
		return nil, err
	}
	if err := profile.ValidateResource(res); err != nil {
		e.opts.Metrics.ObserveFailure("validation", "")
		return nil, err
	}
	return e.score(ctx, req, res, e.opts.Now(), true), nil
}

// FindMatches scores every registered resource that passes the filters
// against the registered requirement. In automated mode recommendations are
// not generated. Results are sorted by rank, then by descending score.
func (e *Engine) FindMatches(ctx context.Context, requirementID string, automated bool, criteria filtering.Criteria) ([]*MatchResult, error) {
	req, ok := e.Requirement(requirementID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRequirementNotFound, requirementID)
	}

	pool := e.Resources()
	log := logger.WithFields(e.log, logger.MatchFields(requirementID, "")...)

	candidates, err := filtering.Run(ctx, log, filtering.FromCriteria(criteria), pool)
	if err != nil {
		return nil, fmt.Errorf("applying filters: %w", err)
	}
	e.opts.Metrics.ObserveFiltered(len(pool) - len(candidates))

	now := e.opts.Now()
	results := make([]*MatchResult, 0, len(candidates))
	for _, res := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, e.score(ctx, req, res, now, !automated))
	}

	SortByRank(results)

	log.Info("matches found",
		zap.Int("resources", len(pool)),
		zap.Int("scored", len(results)),
		zap.Bool("automated", automated),
		zap.Bool("filtered", !criteria.Empty()),
	)
	return results, nil
}

// score computes a result for a validated pair.
func (e *Engine) score(ctx context.Context, req *profile.Requirement, res *profile.Resource, now time.Time, withRecommendation bool) *MatchResult {
	started := time.Now()

	primary, secondary := e.canonicalSkills(res)
	var card scoring.Card

	primaryScore, primaryB := scoring.SkillMatch(primary, e.canonicalNames(req.RequiredPrimarySkills), now)
	card.Add(scoring.Success(scoring.PrimarySkills, primaryScore, primaryB))

	secondaryScore, secondaryB := scoring.SkillMatch(secondary, e.canonicalNames(req.RequiredSecondarySkills), now)
	card.Add(scoring.Success(scoring.SecondarySkills, secondaryScore, secondaryB))

	expScore, expB := scoring.ExperienceMatch(res, req)
	card.Add(scoring.Success(scoring.Experience, expScore, expB))

	certScore, certB := scoring.CertificationMatch(res.Certifications, req.RequiredCertifications)
	card.Add(scoring.Success(scoring.Certifications, certScore, certB))

	card.Add(scoring.Success(scoring.Location, scoring.LocationMatch(res.PreferredLocation, req.Location, req.WorkType), nil))
	card.Add(scoring.Success(scoring.WorkType, scoring.WorkTypeMatch(res.PreferredWorkType, req.WorkType), nil))

	breakdowns := Breakdowns{Primary: primaryB, Secondary: secondaryB, Experience: expB, Certifications: certB}

	if e.opts.Similarity != nil {
		var semantic scoring.Result
		if text, err := e.profileText(ctx, res); err != nil {
			semantic = scoring.Failure(scoring.Semantic, fmt.Errorf("extracting resume sections: %w", err))
		} else {
			semantic = scoring.SemanticTextMatch(ctx, e.opts.Similarity, scoring.RequirementText(req), text)
		}
		card.Add(semantic)
		if b, ok := semantic.Breakdown.(scoring.SemanticBreakdown); ok {
			breakdowns.Semantic = &b
		}
	}

	failures := card.Failures()
	for d, reason := range failures {
		e.log.Warn("dimension scoring failed",
			append(logger.MatchFields(req.ID, res.ID), zap.String("dimension", string(d)), zap.String("reason", reason))...,
		)
		e.opts.Metrics.ObserveFailure("dimension", string(d))
	}
	if len(failures) == 0 {
		failures = nil
	}

	rank := ranking.Classify(primaryScore, secondaryScore, expScore)
	result := &MatchResult{
		RequirementID: req.ID,
		ResourceID:    res.ID,
		ResourceName:  res.Name,
		OverallScore:  ranking.Aggregate(card.Scores(), e.weights),
		Rank:          rank,
		Scores:        card.Scores(),
		Breakdowns:    breakdowns,
		Failures:      failures,
	}

	if withRecommendation {
		result.Recommendation = recommend.Generate(recommend.Input{
			Rank:           rank,
			Primary:        primaryB,
			Secondary:      secondaryB,
			Experience:     expB,
			Certifications: certB,
		})
	}

	e.opts.Metrics.ObserveMatch(rank.String(), time.Since(started))
	e.log.Debug("pair scored",
		append(logger.MatchFields(req.ID, res.ID),
			zap.Float64("overall_score", result.OverallScore),
			zap.Stringer("rank", rank),
		)...,
	)
	return result
}

// profileText is the resource text compared with the requirement: the bio, or
// the summary, skills and experience sections of the resume.
func (e *Engine) profileText(ctx context.Context, res *profile.Resource) (string, error) {
	if strings.TrimSpace(res.Bio) != "" || strings.TrimSpace(res.Resume) == "" {
		return res.Bio, nil
	}
	if e.opts.Extractor == nil {
		return res.Resume, nil
	}
	s, err := e.opts.Extractor.Extract(ctx, res.Resume)
	if err != nil {
		return "", err
	}
	return s.Text(sections.Summary, sections.Skills, sections.Experience), nil
}

func (e *Engine) canonicalSkills(res *profile.Resource) (primary, secondary []profile.Skill) {
	if e.opts.Catalog == nil {
		return res.PrimarySkills, res.SecondarySkills
	}
	rename := func(in []profile.Skill) []profile.Skill {
		out := make([]profile.Skill, len(in))
		for i, s := range in {
			s.Name = e.canonical(s.Name)
			out[i] = s
		}
		return out
	}
	return rename(res.PrimarySkills), rename(res.SecondarySkills)
}

func (e *Engine) canonicalNames(names []string) []string {
	if e.opts.Catalog == nil {
		return names
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = e.canonical(n)
	}
	return out
}

// canonical maps name to the catalog name of the skill it names or aliases.
// Ambiguous aliases keep the original name.
func (e *Engine) canonical(name string) string {
	if s, ok := e.opts.Catalog.Get(name); ok {
		return s.Name
	}
	if found := e.opts.Catalog.ByAlias(name); len(found) == 1 {
		return found[0].Name
	}
	return name
}
