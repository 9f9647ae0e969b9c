package recommend

import (
	"testing"

	"github.com/spigell/resource-matcher/internal/profile"
	"github.com/spigell/resource-matcher/internal/ranking"
	"github.com/spigell/resource-matcher/internal/scoring"
)

func TestGenerateFullOrder(t *testing.T) {
	in := Input{
		Rank: ranking.Moderate,
		Primary: scoring.SkillBreakdown{
			Matched:     []string{"Python", "SQL"},
			Missing:     []string{"ML", "Spark"},
			Proficiency: []float64{100, 50},
		},
		Secondary: scoring.SkillBreakdown{
			Missing: []string{"Docker"},
		},
		Experience: scoring.ExperienceBreakdown{
			Specified:     true,
			RequiredLevel: profile.Senior,
			ResourceLevel: profile.Junior,
			WeightedYears: 2.3,
		},
		Certifications: scoring.CertificationBreakdown{
			Missing:    []string{"CKA"},
			Additional: []string{"PMP", "AWS-SAA"},
		},
	}

	want := "Review - Moderate match" +
		" | Missing primary skills: ML, Spark" +
		" | Average proficiency in matched skills: 75.0%" +
		" | Missing secondary skills: Docker" +
		" | Experience level: JUNIOR (Required: SENIOR)" +
		" | Weighted experience: 2.3 years" +
		" | Missing certifications: CKA" +
		" | Additional relevant certifications: PMP, AWS-SAA"

	if got := Generate(in); got != want {
		t.Fatalf("unexpected recommendation:\n got: %s\nwant: %s", got, want)
	}
}

func TestGenerateOmitsEmptySections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "perfect without gaps",
			in:   Input{Rank: ranking.Perfect, Experience: scoring.ExperienceBreakdown{Level: "not specified"}},
			want: "Strongly recommended - Perfect match",
		},
		{
			name: "same experience bucket reports weighted years only",
			in: Input{
				Rank:       ranking.Excellent,
				Experience: scoring.ExperienceBreakdown{Specified: true, RequiredLevel: profile.Mid, ResourceLevel: profile.Mid, WeightedYears: 4},
			},
			want: "Recommended - Excellent match | Weighted experience: 4.0 years",
		},
		{
			name: "missing skills without matches has no average",
			in:   Input{Rank: ranking.Poor, Primary: scoring.SkillBreakdown{Missing: []string{"Go"}}},
			want: "Not recommended - Poor match | Missing primary skills: Go",
		},
		{
			name: "matched proficiency alone is not reported",
			in:   Input{Rank: ranking.Good, Primary: scoring.SkillBreakdown{Matched: []string{"Go"}, Proficiency: []float64{50}}},
			want: "Consider - Good match",
		},
		{
			name: "unknown rank falls back to poor headline",
			in:   Input{},
			want: "Not recommended - Poor match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Generate(tt.in); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStatementsDeterministic(t *testing.T) {
	in := Input{Rank: ranking.Good, Certifications: scoring.CertificationBreakdown{Missing: []string{"A", "B"}}}
	first := Statements(in)
	for i := 0; i < 10; i++ {
		again := Statements(in)
		if len(again) != len(first) {
			t.Fatalf("statement count changed")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("statement %d changed: %q vs %q", j, again[j], first[j])
			}
		}
	}
}
