package profile

import (
	"errors"
	"strings"
	"testing"
)

func TestParseProficiency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ProficiencyLevel
		wantErr bool
	}{
		{input: "expert", want: Expert},
		{input: " Intermediate ", want: Intermediate},
		{input: "3", want: Advanced},
		{input: "5", wantErr: true},
		{input: "guru", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProficiency(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestProficiencyOrdinals(t *testing.T) {
	levels := []ProficiencyLevel{Beginner, Intermediate, Advanced, Expert}
	for i, level := range levels {
		if level.Ordinal() != i+1 {
			t.Fatalf("expected %s ordinal %d, got %d", level, i+1, level.Ordinal())
		}
	}
	if Expert.Ratio() != 1 {
		t.Fatalf("expected expert ratio 1, got %v", Expert.Ratio())
	}
}

func TestLevelForYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		years float64
		want  ExperienceLevel
	}{
		{years: 0, want: Entry},
		{years: 0.99, want: Entry},
		{years: 1, want: Junior},
		{years: 2.9, want: Junior},
		{years: 3, want: Mid},
		{years: 5, want: Senior},
		{years: 12, want: Senior},
	}

	for _, tt := range tests {
		if got := LevelForYears(tt.years); got != tt.want {
			t.Fatalf("years %v: expected %s, got %s", tt.years, tt.want, got)
		}
	}

	if Junior.Ordinal() != 2 || Senior.Ordinal() != 4 {
		t.Fatalf("unexpected experience ordinals")
	}
}

func TestParseExperienceLevel(t *testing.T) {
	level, err := ParseExperienceLevel("mid_level")
	if err != nil || level != Mid {
		t.Fatalf("expected MID, got %s (%v)", level, err)
	}

	level, err = ParseExperienceLevel("")
	if err != nil || level.Specified() {
		t.Fatalf("expected unspecified level, got %s (%v)", level, err)
	}

	if _, err := ParseExperienceLevel("principal"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestWorkTypeNormalize(t *testing.T) {
	if got := WorkType(" on-site ").Normalize(); got != Onsite {
		t.Fatalf("expected ONSITE, got %q", got)
	}
	if got := WorkType("remote").Normalize(); got != Remote {
		t.Fatalf("expected REMOTE, got %q", got)
	}
}

func TestValidateResource(t *testing.T) {
	valid := &Resource{
		ID:            "r1",
		PrimarySkills: []Skill{{Name: "Go", Proficiency: Expert, YearsExperience: 4}},
	}
	if err := ValidateResource(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := &Resource{ID: "r2", PrimarySkills: []Skill{}}
	if err := ValidateResource(empty); err != nil {
		t.Fatalf("empty skills list must be accepted: %v", err)
	}

	missing := &Resource{ID: "r3"}
	err := ValidateResource(missing)
	if err == nil {
		t.Fatalf("expected validation error for missing skills")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "primary_skills is required") {
		t.Fatalf("unexpected message: %v", err)
	}

	badSkill := &Resource{
		ID:            "r4",
		PrimarySkills: []Skill{{Name: "Go", Proficiency: 7, YearsExperience: -1}},
	}
	err = ValidateResource(badSkill)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", verr.Problems)
	}
}

func TestValidateRequirement(t *testing.T) {
	if err := ValidateRequirement(nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for nil requirement, got %v", err)
	}

	err := ValidateRequirement(&Requirement{ID: "j1", WorkType: "SPACE"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	joined := strings.Join(verr.Problems, "\n")
	if !strings.Contains(joined, "required_primary_skills is required") {
		t.Fatalf("expected missing skills problem, got %s", joined)
	}
	if !strings.Contains(joined, "work_type must be one of") {
		t.Fatalf("expected work type problem, got %s", joined)
	}
}

func TestValidateAcceptsWorkTypeSpellings(t *testing.T) {
	t.Parallel()

	for _, wt := range []WorkType{"remote", " Hybrid ", "on_site", "ON-SITE", "ONSITE"} {
		res := &Resource{ID: "r1", PrimarySkills: []Skill{{Name: "Go", Proficiency: Advanced}}, PreferredWorkType: wt}
		if err := ValidateResource(res); err != nil {
			t.Fatalf("%q must be accepted: %v", wt, err)
		}
		req := &Requirement{ID: "j1", RequiredPrimarySkills: []string{"Go"}, WorkType: wt}
		if err := ValidateRequirement(req); err != nil {
			t.Fatalf("%q must be accepted: %v", wt, err)
		}
	}
}
