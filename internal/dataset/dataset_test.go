package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/resource-matcher/internal/profile"
)

const sampleYAML = `
weights:
  primary_skills: 0.5
  secondary_skills: 0.2
  experience: 0.3
resources:
  - id: res-1
    name: Ada
    preferred_location: Berlin
    preferred_work_type: remote
    total_years_experience: 7
    certifications: [CKA]
    primary_skills:
      - name: Python
        category: programming
        proficiency_level: EXPERT
        years_experience: 6
        last_used: 2026-02-01
      - name: Go
        proficiency_level: 3
        years_experience: 2.5
        last_used: "2025-12-24T10:00:00Z"
    secondary_skills: []
requirements:
  - id: req-1
    title: Backend
    required_primary_skills: [Python, Go]
    required_secondary_skills: []
    required_experience_level: mid_level
    work_type: on-site
    start_date: 2026-04-01
`

const sampleJSON = `{
  "resources": [{"id": "res-2", "primary_skills": [{"name": "Java", "proficiency_level": "beginner", "years_experience": 1}]}],
  "requirements": [{"id": "req-2", "required_primary_skills": ["Java"], "required_experience_level": "SENIOR", "work_type": "HYBRID"}]
}`

func TestLoadYAML(t *testing.T) {
	d, err := Load(strings.NewReader(sampleYAML), YAML)
	require.NoError(t, err)

	require.Len(t, d.Resources, 1)
	res := d.Resources[0]
	assert.Equal(t, profile.Remote, res.PreferredWorkType)
	require.Len(t, res.PrimarySkills, 2)

	python := res.PrimarySkills[0]
	assert.Equal(t, profile.Expert, python.Proficiency)
	assert.Equal(t, profile.Programming, python.Category)
	require.NotNil(t, python.LastUsed)
	assert.True(t, python.LastUsed.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	gopher := res.PrimarySkills[1]
	assert.Equal(t, profile.Advanced, gopher.Proficiency)
	assert.Equal(t, 2.5, gopher.YearsExperience)
	require.NotNil(t, gopher.LastUsed)
	assert.Equal(t, 24, gopher.LastUsed.Day())

	req, ok := d.Requirement("req-1")
	require.True(t, ok)
	assert.Equal(t, profile.Mid, req.RequiredExperience)
	assert.Equal(t, profile.Onsite, req.WorkType)
	require.NotNil(t, req.StartDate)
	assert.Equal(t, time.April, req.StartDate.Month())
	assert.NotNil(t, req.RequiredSecondarySkills)

	assert.Equal(t, map[string]float64{"primary_skills": 0.5, "secondary_skills": 0.2, "experience": 0.3}, d.Weights)
	assert.Equal(t, []string{"req-1"}, d.RequirementIDs())

	require.NoError(t, profile.ValidateResource(res))
	require.NoError(t, profile.ValidateRequirement(req))
}

func TestLoadJSON(t *testing.T) {
	d, err := Load(strings.NewReader(sampleJSON), JSON)
	require.NoError(t, err)

	require.Len(t, d.Resources, 1)
	assert.Equal(t, profile.Beginner, d.Resources[0].PrimarySkills[0].Proficiency)
	assert.Equal(t, profile.Senior, d.Requirements[0].RequiredExperience)
	assert.Equal(t, profile.Hybrid, d.Requirements[0].WorkType)
	assert.Nil(t, d.Weights)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{name: "bad level", input: "resources:\n  - id: r\n    primary_skills:\n      - name: Go\n        proficiency_level: GURU\n", format: YAML},
		{name: "bad date", input: "resources:\n  - id: r\n    available_from: next week\n", format: YAML},
		{name: "broken json", input: "{", format: JSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	d, err := Load(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Empty(t, d.Resources)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o600))

	d, err := LoadFile(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-2"}, d.RequirementIDs())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	assert.Equal(t, JSON, FormatOf("x.JSON"))
	assert.Equal(t, YAML, FormatOf("x.yml"))
}
