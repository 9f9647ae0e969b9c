// Package filtering removes resources from consideration before scoring.
// Filters are hard excludes, never score penalties.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/profile"
)

// Filter represents a single filtering step applied to resources.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, resources []*profile.Resource) ([]*profile.Resource, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Criteria are the optional pre-filters of a match run. Zero values do not filter.
type Criteria struct {
	Location      string
	WorkType      profile.WorkType
	MinExperience float64
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.Location == "" && c.WorkType == "" && c.MinExperience == 0
}

// FromCriteria builds the filter chain for c. Unset criteria produce disabled
// filters so they still show up in Describe.
func FromCriteria(c Criteria) []Filter {
	steps := []Filter{
		NewLocation(c.Location),
		NewWorkType(c.WorkType),
		NewMinExperience(c.MinExperience),
	}
	if c.Location == "" {
		DisableByName(steps, locationName, "not requested")
	}
	if c.WorkType == "" {
		DisableByName(steps, workTypeName, "not requested")
	}
	if c.MinExperience == 0 {
		DisableByName(steps, minExperienceName, "not requested")
	}
	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Validate checks every enabled filter and reports all problems at once.
func Validate(steps []Filter) error {
	var errs error
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.Name(), err))
		}
	}
	return errs
}

// Run validates and executes the supplied filters sequentially. The input
// slice is not modified.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, resources []*profile.Resource) ([]*profile.Resource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := Validate(steps); err != nil {
		return nil, err
	}

	for _, status := range Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	current := append([]*profile.Resource(nil), resources...)
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}

		next, info, err := step.Apply(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep applies pred to resources and reports the step.
func keep(resources []*profile.Resource, pred func(*profile.Resource) bool) ([]*profile.Resource, Step) {
	out := make([]*profile.Resource, 0, len(resources))
	for _, r := range resources {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, Step{Initial: len(resources), Dropped: len(resources) - len(out), Left: len(out)}
}

// toggle carries the enable state shared by all filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }
