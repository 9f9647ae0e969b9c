package filtering

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/resource-matcher/internal/profile"
)

const (
	locationName      = "location"
	workTypeName      = "work_type"
	minExperienceName = "min_experience"
)

type locationFilter struct {
	toggle
	location string
}

// NewLocation creates a filter that keeps resources preferring location.
func NewLocation(location string) Filter {
	return &locationFilter{location: strings.TrimSpace(location)}
}

func (f *locationFilter) Name() string { return locationName }

func (f *locationFilter) Validate() error {
	if f.location == "" {
		return fmt.Errorf("location must not be empty")
	}
	return nil
}

func (f *locationFilter) Apply(_ context.Context, resources []*profile.Resource) ([]*profile.Resource, Step, error) {
	out, step := keep(resources, func(r *profile.Resource) bool {
		return strings.EqualFold(strings.TrimSpace(r.PreferredLocation), f.location)
	})
	return out, step, nil
}

func (f *locationFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"location": f.location}}
}

type workTypeFilter struct {
	toggle
	workType profile.WorkType
}

// NewWorkType creates a filter that keeps resources preferring workType.
func NewWorkType(workType profile.WorkType) Filter {
	return &workTypeFilter{workType: workType.Normalize()}
}

func (f *workTypeFilter) Name() string { return workTypeName }

func (f *workTypeFilter) Validate() error {
	switch f.workType {
	case profile.Remote, profile.Hybrid, profile.Onsite:
		return nil
	}
	return fmt.Errorf("unknown work type %q", f.workType)
}

func (f *workTypeFilter) Apply(_ context.Context, resources []*profile.Resource) ([]*profile.Resource, Step, error) {
	out, step := keep(resources, func(r *profile.Resource) bool {
		return r.PreferredWorkType.Normalize() == f.workType
	})
	return out, step, nil
}

func (f *workTypeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"work_type": string(f.workType)}}
}

type minExperienceFilter struct {
	toggle
	years float64
}

// NewMinExperience creates a filter that keeps resources with at least one
// primary skill of years or more.
func NewMinExperience(years float64) Filter {
	return &minExperienceFilter{years: years}
}

func (f *minExperienceFilter) Name() string { return minExperienceName }

func (f *minExperienceFilter) Validate() error {
	if math.IsNaN(f.years) || f.years < 0 {
		return fmt.Errorf("minimum experience must be a non-negative number, got %v", f.years)
	}
	return nil
}

func (f *minExperienceFilter) Apply(_ context.Context, resources []*profile.Resource) ([]*profile.Resource, Step, error) {
	out, step := keep(resources, func(r *profile.Resource) bool {
		for _, s := range r.PrimarySkills {
			if s.YearsExperience >= f.years {
				return true
			}
		}
		return false
	})
	return out, step, nil
}

func (f *minExperienceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"years": strconv.FormatFloat(f.years, 'f', -1, 64)},
	}
}
