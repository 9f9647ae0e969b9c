package skills

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resource-matcher/internal/profile"
)

type catalogFile struct {
	Skills []catalogEntry `yaml:"skills"`
}

type catalogEntry struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Level       string   `yaml:"level"`
	Years       float64  `yaml:"years_of_experience"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Aliases     []string `yaml:"aliases"`
}

// LoadFile reads a YAML catalog from path. See Load.
func LoadFile(path string, logger *zap.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skill catalog: %w", err)
	}
	defer f.Close()

	return Load(f, logger)
}

// Load decodes a YAML document with a top-level skills list. Entries with an
// unknown category or level are skipped and logged.
func Load(r io.Reader, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding skill catalog: %w", err)
	}

	c := New()
	for i, entry := range doc.Skills {
		skill, err := entry.skill()
		if err != nil {
			logger.Warn("skipping catalog entry",
				zap.Int("index", i),
				zap.String("name", entry.Name),
				zap.Error(err),
			)
			continue
		}
		c.Add(skill)
	}

	logger.Debug("skill catalog loaded", zap.Int("skills", c.Len()), zap.Int("entries", len(doc.Skills)))

	return c, nil
}

func (e catalogEntry) skill() (profile.Skill, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return profile.Skill{}, fmt.Errorf("name is required")
	}

	category, err := profile.ParseCategory(e.Category)
	if err != nil {
		return profile.Skill{}, err
	}

	level := profile.Beginner
	if strings.TrimSpace(e.Level) != "" {
		if level, err = profile.ParseProficiency(e.Level); err != nil {
			return profile.Skill{}, err
		}
	}

	if e.Years < 0 {
		return profile.Skill{}, fmt.Errorf("years_of_experience must not be negative")
	}

	return profile.Skill{
		Name:            name,
		Category:        category,
		Proficiency:     level,
		YearsExperience: e.Years,
		Description:     strings.TrimSpace(e.Description),
		Tags:            e.Tags,
		Aliases:         e.Aliases,
	}, nil
}
