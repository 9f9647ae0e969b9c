// Package sections is the boundary to document processors that split raw
// resume or job text into named sections.
package sections

import (
	"context"
	"strings"
)

// Keys every extractor result carries.
const (
	Skills         = "skills"
	Experience     = "experience"
	Education      = "education"
	Certifications = "certifications"
	Summary        = "summary"
)

// Keys returns the required section keys.
func Keys() []string {
	return []string{Skills, Experience, Education, Certifications, Summary}
}

// Sections maps a section key to its text.
type Sections map[string]string

// Get returns the text of key, or "" when the section is missing.
func (s Sections) Get(key string) string {
	return s[normalizeKey(key)]
}

// Text joins the non-empty sections named by keys, in that order.
func (s Sections) Text(keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := s.Get(k); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

// Extractor splits raw document text into sections.
type Extractor interface {
	Extract(ctx context.Context, raw string) (Sections, error)
}

// Normalize folds keys, trims values and fills every required key that is
// missing with an empty string.
func Normalize(raw map[string]string) Sections {
	out := make(Sections, len(raw)+len(Keys()))
	for _, k := range Keys() {
		out[k] = ""
	}
	for k, v := range raw {
		key := normalizeKey(k)
		if key == "" {
			continue
		}
		v = strings.TrimSpace(v)
		if prev := out[key]; prev != "" && v != "" {
			v = prev + "\n" + v
		} else if v == "" {
			v = prev
		}
		out[key] = v
	}
	return out
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}
