package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/profile"
)

// BatchMatch scores every requirement against every resource. Pairs are
// independent and computed on a pool bounded by Options.Concurrency. A pair
// whose records fail validation becomes an error record instead of aborting
// the batch. The returned slice is complete and sorted by Options.BatchOrder;
// it is only returned after every pair is done.
func (e *Engine) BatchMatch(ctx context.Context, requirements []*profile.Requirement, resources []*profile.Resource) ([]*MatchResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := logger.WithRun(e.log, runID)

	log.Info("batch match started",
		zap.Int("requirements", len(requirements)),
		zap.Int("resources", len(resources)),
		zap.Int("concurrency", e.opts.Concurrency),
	)

	reqErrs := make([]error, len(requirements))
	for i, req := range requirements {
		reqErrs[i] = profile.ValidateRequirement(req)
	}
	resErrs := make([]error, len(resources))
	for i, res := range resources {
		resErrs[i] = profile.ValidateResource(res)
	}

	now := e.opts.Now()
	results := make([]*MatchResult, len(requirements)*len(resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i, req := range requirements {
		for j, res := range resources {
			slot := i*len(resources) + j
			if err := invalidPair(reqErrs[i], resErrs[j]); err != nil {
				e.opts.Metrics.ObserveFailure("validation", "")
				log.Warn("pair skipped",
					append(logger.MatchFields(requirementID(req), resourceID(res)), zap.Error(err))...,
				)
				results[slot] = errorResult(requirementID(req), resourceID(res), nameOf(res), err)
				continue
			}

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[slot] = e.score(gctx, req, res, now, true)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}

	switch e.opts.BatchOrder {
	case OrderByScore:
		SortByScore(results)
	default:
		SortByRank(results)
	}

	elapsed := time.Since(started)
	e.opts.Metrics.ObserveBatch(elapsed)
	log.Info("batch match finished",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", elapsed),
	)
	return results, nil
}

func invalidPair(reqErr, resErr error) error {
	switch {
	case reqErr != nil && resErr != nil:
		return fmt.Errorf("%w; %w", reqErr, resErr)
	case reqErr != nil:
		return reqErr
	default:
		return resErr
	}
}

func requirementID(r *profile.Requirement) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func resourceID(r *profile.Resource) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func nameOf(r *profile.Resource) string {
	if r == nil {
		return ""
	}
	return r.Name
}
