package autoview

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/tomselect"
)

// Source answers autocomplete queries for one logical option set.
// Implementations must be safe for concurrent use.
type Source interface {
	// Search returns at most limit options matching the term.
	// An empty term matches everything up to the limit.
	Search(ctx context.Context, term string, limit int) ([]tomselect.Result, error)
}

// DependentSource is a Source that can additionally restrict its results
// by parent-field values, keyed by the source-side field names a widget's
// dependent-fields mapping declares. The view prefers SearchDependent
// over Search whenever parent values accompany the query.
type DependentSource interface {
	Source
	SearchDependent(ctx context.Context, term string, limit int, deps map[string]string) ([]tomselect.Result, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, term string, limit int) ([]tomselect.Result, error)

// Search implements Source.
func (f SourceFunc) Search(ctx context.Context, term string, limit int) ([]tomselect.Result, error) {
	return f(ctx, term, limit)
}

// Sources is a named registry of sources.
type Sources struct {
	mu     sync.RWMutex
	byName map[string]Source
}

// NewSources creates an empty source registry.
func NewSources() *Sources {
	return &Sources{byName: make(map[string]Source)}
}

// Register adds a source under a name, replacing any previous one.
func (s *Sources) Register(name string, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[name] = src
}

// Get returns the source registered under a name.
func (s *Sources) Get(name string) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.byName[name]
	return src, ok
}

// Static is an in-memory source over a fixed option list. Matching is a
// Unicode case-folded substring test; options whose label starts with the
// term rank before plain substring matches, ties break alphabetically.
type Static struct {
	choices []tomselect.Result
}

// NewStaticSource creates a static source from a fixed option list.
func NewStaticSource(choices ...tomselect.Result) *Static {
	return &Static{choices: choices}
}

// Search implements Source.
func (s *Static) Search(_ context.Context, term string, limit int) ([]tomselect.Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	if strings.TrimSpace(term) == "" {
		n := min(limit, len(s.choices))
		return append([]tomselect.Result{}, s.choices[:n]...), nil
	}

	// A Caser is stateful; build one per call.
	fold := cases.Fold()
	q := fold.String(term)

	type match struct {
		result   tomselect.Result
		isPrefix bool
	}
	matches := make([]match, 0, 16)
	for _, c := range s.choices {
		text := fold.String(c.Text)
		if !strings.Contains(text, q) {
			continue
		}
		matches = append(matches, match{
			result:   c,
			isPrefix: strings.HasPrefix(text, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].result.Text < matches[j].result.Text
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]tomselect.Result, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.result)
	}
	return out, nil
}
