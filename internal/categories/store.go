package categories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"clearspend/internal/core"
)

// Entry is one category with its keyword list. Entry order is
// significant: the classifier iterates categories in store order and the
// last matching category wins.
type Entry struct {
	Name     string
	Keywords []string
}

// Document persists the whole category mapping as one unit. Load returns
// entries in their stored order; Store rewrites the document in full.
type Document interface {
	Load(ctx context.Context) ([]Entry, error)
	Store(ctx context.Context, entries []Entry) error
}

// Snapshot is an immutable, ordered copy of the store contents, handed to
// the classifier so that classification stays a pure function.
type Snapshot []Entry

// Store owns the category name -> keyword mapping. All mutations go
// through AddCategory/AddKeyword and are followed by a full persist.
type Store struct {
	mu       sync.Mutex
	doc      Document
	names    []string
	keywords map[string][]string
}

func New(doc Document) *Store {
	return &Store{
		doc:      doc,
		keywords: make(map[string][]string),
	}
}

// Load reads the persisted document. A missing or corrupt document falls
// back to the built-in default taxonomy without returning an error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.doc.Load(ctx)
	if err != nil || len(entries) == 0 {
		if err != nil {
			slog.WarnContext(ctx, "Category document unavailable, using default taxonomy", "error", err)
		}
		entries = defaultTaxonomy()
	}

	s.names = s.names[:0]
	s.keywords = make(map[string][]string, len(entries))
	for _, e := range entries {
		if _, ok := s.keywords[e.Name]; ok {
			continue
		}
		s.names = append(s.names, e.Name)
		s.keywords[e.Name] = append([]string(nil), e.Keywords...)
	}
}

// AddCategory inserts a category with an empty keyword set and persists.
// A blank or already-present name is a no-op returning false.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keywords[name]; ok {
		return false, nil
	}
	s.names = append(s.names, name)
	s.keywords[name] = nil

	if err := s.persistLocked(ctx); err != nil {
		s.names = s.names[:len(s.names)-1]
		delete(s.keywords, name)
		return false, fmt.Errorf("persist categories: %w", err)
	}

	slog.InfoContext(ctx, "Category added", "category", name)
	return true, nil
}

// AddKeyword appends a keyword to an existing category and persists.
// The keyword is trimmed; an empty or duplicate keyword is a no-op
// returning false. An absent category is an error.
func (s *Store) AddKeyword(ctx context.Context, category, keyword string) (bool, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.keywords[category]
	if !ok {
		return false, fmt.Errorf("add keyword %q to %q: %w", keyword, category, core.ErrUnknownCategory)
	}
	for _, k := range existing {
		if k == keyword {
			return false, nil
		}
	}
	s.keywords[category] = append(existing, keyword)

	if err := s.persistLocked(ctx); err != nil {
		s.keywords[category] = existing
		return false, fmt.Errorf("persist categories: %w", err)
	}

	slog.InfoContext(ctx, "Keyword added", "category", category, "keyword", keyword)
	return true, nil
}

// Categories returns category names in insertion order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Keywords returns the keyword list for one category.
func (s *Store) Keywords(name string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kws, ok := s.keywords[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), kws...), true
}

// Has reports whether a category exists.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keywords[name]
	return ok
}

// Snapshot returns an ordered copy of the full mapping.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(Snapshot, 0, len(s.names))
	for _, name := range s.names {
		snap = append(snap, Entry{
			Name:     name,
			Keywords: append([]string(nil), s.keywords[name]...),
		})
	}
	return snap
}

func (s *Store) persistLocked(ctx context.Context) error {
	entries := make([]Entry, 0, len(s.names))
	for _, name := range s.names {
		entries = append(entries, Entry{Name: name, Keywords: s.keywords[name]})
	}
	return s.doc.Store(ctx, entries)
}
