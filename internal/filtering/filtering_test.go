package filtering

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resource-matcher/internal/profile"
)

func pool() []*profile.Resource {
	return []*profile.Resource{
		{ID: "berlin-remote", PreferredLocation: "Berlin", PreferredWorkType: profile.Remote,
			PrimarySkills: []profile.Skill{{Name: "Go", YearsExperience: 6}}},
		{ID: "berlin-onsite", PreferredLocation: "berlin", PreferredWorkType: profile.Onsite,
			PrimarySkills: []profile.Skill{{Name: "Go", YearsExperience: 2}, {Name: "SQL", YearsExperience: 4}}},
		{ID: "lisbon-remote", PreferredLocation: "Lisbon", PreferredWorkType: profile.Remote,
			PrimarySkills: []profile.Skill{{Name: "Python", YearsExperience: 1}}},
		{ID: "no-skills", PreferredLocation: "Berlin", PreferredWorkType: profile.Remote,
			PrimarySkills: []profile.Skill{}},
	}
}

func ids(rs []*profile.Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "no criteria keeps everything", want: []string{"berlin-remote", "berlin-onsite", "lisbon-remote", "no-skills"}},
		{name: "location ignores case", criteria: Criteria{Location: "BERLIN"}, want: []string{"berlin-remote", "berlin-onsite", "no-skills"}},
		{name: "work type", criteria: Criteria{WorkType: "remote"}, want: []string{"berlin-remote", "lisbon-remote", "no-skills"}},
		{name: "min experience needs one primary skill", criteria: Criteria{MinExperience: 4}, want: []string{"berlin-remote", "berlin-onsite"}},
		{
			name:     "combined",
			criteria: Criteria{Location: "Berlin", WorkType: profile.Remote, MinExperience: 3},
			want:     []string{"berlin-remote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			input := pool()
			got, err := Run(context.Background(), nil, FromCriteria(tt.criteria), input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(ids(got), ",") != strings.Join(tt.want, ",") {
				t.Fatalf("expected %v, got %v", tt.want, ids(got))
			}
			if len(input) != 4 {
				t.Fatalf("input slice must not be modified")
			}
		})
	}
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	_, err := Run(context.Background(), zap.New(core), FromCriteria(Criteria{Location: "Lisbon"}), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("filter step").All()
	if len(entries) != 1 {
		t.Fatalf("expected one enabled step to log, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["name"] != "location" || ctx["dropped"] != int64(3) || ctx["left"] != int64(1) {
		t.Fatalf("unexpected step fields: %v", ctx)
	}
}

func TestRunLogsFilterStatus(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	_, err := Run(context.Background(), zap.New(core), FromCriteria(Criteria{WorkType: profile.Remote}), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("filter status").All()
	if len(entries) != 3 {
		t.Fatalf("expected a status per filter, got %d", len(entries))
	}
	for _, e := range entries {
		ctx := e.ContextMap()
		switch ctx["name"] {
		case "work_type":
			if ctx["enabled"] != true {
				t.Fatalf("work type filter must be enabled: %v", ctx)
			}
		default:
			if ctx["enabled"] != false || ctx["reason"] != "not requested" {
				t.Fatalf("unexpected status: %v", ctx)
			}
		}
	}
}

func TestCriteriaEmpty(t *testing.T) {
	if !(Criteria{}).Empty() {
		t.Fatalf("zero criteria must be empty")
	}
	if (Criteria{MinExperience: 1}).Empty() {
		t.Fatalf("min experience is a criterion")
	}
}

func TestValidateCombinesErrors(t *testing.T) {
	steps := []Filter{NewLocation("  "), NewWorkType("space"), NewMinExperience(-2)}

	err := Validate(steps)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	if n := len(multierr.Errors(err)); n != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", n, err)
	}

	if _, err := Run(context.Background(), nil, steps, pool()); err == nil {
		t.Fatalf("run must fail validation")
	}

	DisableByName(steps, "work_type", "test")
	DisableByName(steps, "location", "test")
	DisableByName(steps, "min_experience", "test")
	if err := Validate(steps); err != nil {
		t.Fatalf("disabled filters must not be validated: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	statuses := Describe(FromCriteria(Criteria{MinExperience: 2.5}))
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	byName := map[string]Status{}
	for _, s := range statuses {
		byName[s.Name] = s
	}
	if byName["location"].Enabled || byName["location"].Reason != "not requested" {
		t.Fatalf("unexpected location status: %+v", byName["location"])
	}
	if !byName["min_experience"].Enabled || byName["min_experience"].Details["years"] != "2.5" {
		t.Fatalf("unexpected min_experience status: %+v", byName["min_experience"])
	}
}
