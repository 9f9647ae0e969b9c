package profile

import (
	"strings"
	"time"
)

// Skill is a single skill held by a candidate or registered in a catalog.
type Skill struct {
	Name            string           `json:"name" mapstructure:"name" validate:"required"`
	Category        Category         `json:"category,omitempty" mapstructure:"category"`
	Proficiency     ProficiencyLevel `json:"proficiency_level" mapstructure:"proficiency_level" validate:"min=1,max=4"`
	YearsExperience float64          `json:"years_experience" mapstructure:"years_experience" validate:"gte=0"`
	LastUsed        *time.Time       `json:"last_used,omitempty" mapstructure:"last_used"`
	ProjectsCount   int              `json:"projects_count" mapstructure:"projects_count" validate:"gte=0"`
	Description     string           `json:"description,omitempty" mapstructure:"description"`
	Tags            []string         `json:"tags,omitempty" mapstructure:"tags"`
	Aliases         []string         `json:"aliases,omitempty" mapstructure:"aliases"`
}

// Key returns the case-insensitive identity of the skill.
func (s Skill) Key() string {
	return NormalizeName(s.Name)
}

// NormalizeName folds a skill, certification or alias name for comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resource is a candidate profile. It is read-only during matching.
type Resource struct {
	ID                   string     `json:"id" mapstructure:"id" validate:"required"`
	Name                 string     `json:"name" mapstructure:"name"`
	PrimarySkills        []Skill    `json:"primary_skills" mapstructure:"primary_skills" validate:"required,dive"`
	SecondarySkills      []Skill    `json:"secondary_skills" mapstructure:"secondary_skills" validate:"dive"`
	Certifications       []string   `json:"certifications" mapstructure:"certifications"`
	TotalYearsExperience float64    `json:"total_years_experience" mapstructure:"total_years_experience" validate:"gte=0"`
	PreferredLocation    string     `json:"preferred_location" mapstructure:"preferred_location"`
	PreferredWorkType    WorkType   `json:"preferred_work_type" mapstructure:"preferred_work_type" validate:"omitempty,worktype"`
	AvailableFrom        *time.Time `json:"available_from,omitempty" mapstructure:"available_from"`
	AvailableUntil       *time.Time `json:"available_until,omitempty" mapstructure:"available_until"`
	Bio                  string     `json:"bio,omitempty" mapstructure:"bio"`
	// Resume is raw resume text. It is split into sections when no bio is set.
	Resume string `json:"resume,omitempty" mapstructure:"resume"`
}

// Requirement is a job opening or project staffing request.
type Requirement struct {
	ID                      string          `json:"id" mapstructure:"id" validate:"required"`
	Title                   string          `json:"title" mapstructure:"title"`
	Description             string          `json:"description,omitempty" mapstructure:"description"`
	RequiredPrimarySkills   []string        `json:"required_primary_skills" mapstructure:"required_primary_skills" validate:"required,dive,required"`
	RequiredSecondarySkills []string        `json:"required_secondary_skills" mapstructure:"required_secondary_skills" validate:"dive,required"`
	PreferredSkills         []string        `json:"preferred_skills,omitempty" mapstructure:"preferred_skills"`
	RequiredCertifications  []string        `json:"required_certifications,omitempty" mapstructure:"required_certifications"`
	RequiredExperience      ExperienceLevel `json:"required_experience_level,omitempty" mapstructure:"required_experience_level" validate:"gte=0,lte=4"`
	Location                string          `json:"location" mapstructure:"location"`
	WorkType                WorkType        `json:"work_type" mapstructure:"work_type" validate:"omitempty,worktype"`

	// Metadata below is carried through to exports and never scored.
	StartDate      *time.Time `json:"start_date,omitempty" mapstructure:"start_date"`
	DurationMonths int        `json:"duration_months,omitempty" mapstructure:"duration_months"`
	Priority       int        `json:"priority,omitempty" mapstructure:"priority"`
	BudgetMin      float64    `json:"budget_min,omitempty" mapstructure:"budget_min"`
	BudgetMax      float64    `json:"budget_max,omitempty" mapstructure:"budget_max"`
	ClientName     string     `json:"client_name,omitempty" mapstructure:"client_name"`
	Industry       string     `json:"industry,omitempty" mapstructure:"industry"`
	TeamSize       int        `json:"team_size,omitempty" mapstructure:"team_size"`
}
