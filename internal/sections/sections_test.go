package sections

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestNormalizeFillsRequiredKeys(t *testing.T) {
	t.Parallel()

	s := Normalize(map[string]string{
		" Skills ":     " Go, SQL ",
		"SUMMARY":      "Backend engineer",
		"side-project": "compiler",
	})

	for _, k := range Keys() {
		if _, ok := s[k]; !ok {
			t.Fatalf("missing key %q in %v", k, s)
		}
	}
	if s.Get("skills") != "Go, SQL" {
		t.Fatalf("unexpected skills %q", s.Get("skills"))
	}
	if s.Get("education") != "" {
		t.Fatalf("missing section must be empty, got %q", s.Get("education"))
	}
	if s.Get("Side Project") != "compiler" {
		t.Fatalf("extra keys must be kept, got %v", s)
	}
}

func TestNormalizeMergesFoldedKeys(t *testing.T) {
	t.Parallel()

	s := Normalize(map[string]string{"skills": "Go", "Skills": "SQL"})
	got := s.Get(Skills)
	if got != "Go\nSQL" && got != "SQL\nGo" {
		t.Fatalf("expected both values merged, got %q", got)
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	s := Normalize(map[string]string{"summary": "Backend engineer", "experience": "5 years of Go"})
	if got := s.Text(Summary, Skills, Experience); got != "Backend engineer\n5 years of Go" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := Sections(nil).Text(Summary); got != "" {
		t.Fatalf("nil sections must give empty text, got %q", got)
	}
}

type countingExtractor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingExtractor) Extract(_ context.Context, raw string) (Sections, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return Normalize(map[string]string{Summary: raw}), nil
}

func TestCachedExtractsOnce(t *testing.T) {
	inner := &countingExtractor{}
	c := NewCached(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Extract(context.Background(), "Go engineer"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s, err := c.Extract(context.Background(), "  Go engineer ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Get(Summary) != "Go engineer" {
		t.Fatalf("unexpected summary %q", s.Get(Summary))
	}
	if inner.calls != 1 {
		t.Fatalf("expected one extraction, got %d", inner.calls)
	}
}

func TestCachedDoesNotKeepErrors(t *testing.T) {
	inner := &countingExtractor{err: errors.New("model offline")}
	c := NewCached(inner)

	if _, err := c.Extract(context.Background(), "text"); err == nil {
		t.Fatalf("expected error")
	}
	inner.err = nil
	if _, err := c.Extract(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected a retry after the failure, got %d calls", inner.calls)
	}
}
