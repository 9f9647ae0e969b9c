package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// ProficiencyLevel is how well a skill is mastered. The numeric value is the
// ordinal used in scoring, BEGINNER=1 through EXPERT=4.
type ProficiencyLevel int

const (
	Beginner     ProficiencyLevel = 1
	Intermediate ProficiencyLevel = 2
	Advanced     ProficiencyLevel = 3
	Expert       ProficiencyLevel = 4
)

// MaxProficiency is the ordinal of the highest proficiency level.
const MaxProficiency = 4

var proficiencyNames = map[ProficiencyLevel]string{
	Beginner:     "BEGINNER",
	Intermediate: "INTERMEDIATE",
	Advanced:     "ADVANCED",
	Expert:       "EXPERT",
}

// Ordinal returns the 1-4 position of the level.
func (p ProficiencyLevel) Ordinal() int {
	return int(p)
}

// Ratio returns the ordinal scaled to [0,1].
func (p ProficiencyLevel) Ratio() float64 {
	return float64(p.Ordinal()) / MaxProficiency
}

func (p ProficiencyLevel) Valid() bool {
	_, ok := proficiencyNames[p]
	return ok
}

func (p ProficiencyLevel) String() string {
	if name, ok := proficiencyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ProficiencyLevel(%d)", int(p))
}

func (p ProficiencyLevel) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid proficiency level %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *ProficiencyLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseProficiency(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseProficiency accepts a level name in any case or its ordinal.
func ParseProficiency(s string) (ProficiencyLevel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		level := ProficiencyLevel(n)
		if level.Valid() {
			return level, nil
		}
		return 0, fmt.Errorf("proficiency level %d is out of range 1-%d", n, MaxProficiency)
	}
	for level, name := range proficiencyNames {
		if name == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown proficiency level %q", s)
}

// ExperienceLevel is an experience bucket. The zero value means the level is
// not specified.
type ExperienceLevel int

const (
	ExperienceUnspecified ExperienceLevel = iota
	Entry
	Junior
	Mid
	Senior
)

var experienceNames = map[ExperienceLevel]string{
	Entry:  "ENTRY",
	Junior: "JUNIOR",
	Mid:    "MID",
	Senior: "SENIOR",
}

// Ordinal returns ENTRY=1 through SENIOR=4, and 0 when unspecified.
func (e ExperienceLevel) Ordinal() int {
	return int(e)
}

func (e ExperienceLevel) Specified() bool {
	_, ok := experienceNames[e]
	return ok
}

func (e ExperienceLevel) String() string {
	if name, ok := experienceNames[e]; ok {
		return name
	}
	if e == ExperienceUnspecified {
		return ""
	}
	return fmt.Sprintf("ExperienceLevel(%d)", int(e))
}

func (e ExperienceLevel) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *ExperienceLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseExperienceLevel(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseExperienceLevel accepts a bucket name in any case. MID_LEVEL is an alias
// of MID and an empty string yields ExperienceUnspecified.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "":
		return ExperienceUnspecified, nil
	case "MID_LEVEL", "MID-LEVEL":
		return Mid, nil
	}
	for level, name := range experienceNames {
		if name == s {
			return level, nil
		}
	}
	return ExperienceUnspecified, fmt.Errorf("unknown experience level %q", s)
}

// LevelForYears buckets a number of years into an experience level.
func LevelForYears(years float64) ExperienceLevel {
	switch {
	case years >= 5:
		return Senior
	case years >= 3:
		return Mid
	case years >= 1:
		return Junior
	default:
		return Entry
	}
}

// WorkType is the working arrangement of a position or a candidate preference.
type WorkType string

const (
	Remote WorkType = "REMOTE"
	Hybrid WorkType = "HYBRID"
	Onsite WorkType = "ONSITE"
)

// Normalize upper-cases the value and maps ON_SITE and ON-SITE to ONSITE.
func (w WorkType) Normalize() WorkType {
	v := strings.ToUpper(strings.TrimSpace(string(w)))
	switch v {
	case "ON_SITE", "ON-SITE":
		return Onsite
	}
	return WorkType(v)
}

// Valid reports whether w names a known arrangement in any accepted spelling.
func (w WorkType) Valid() bool {
	switch w.Normalize() {
	case Remote, Hybrid, Onsite:
		return true
	}
	return false
}

func (w WorkType) String() string {
	return string(w)
}

// Category groups catalog skills.
type Category string

const (
	Programming  Category = "PROGRAMMING"
	MLFrameworks Category = "ML_FRAMEWORKS"
	DeepLearning Category = "DEEP_LEARNING"
	DataScience  Category = "DATA_SCIENCE"
	Cloud        Category = "CLOUD"
	DevOps       Category = "DEVOPS"
	Specialized  Category = "SPECIALIZED"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{Programming, MLFrameworks, DeepLearning, DataScience, Cloud, DevOps, Specialized}
}

// ParseCategory resolves a category name in any case.
func ParseCategory(s string) (Category, error) {
	v := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range Categories() {
		if c == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown skill category %q", s)
}
