package categories

import (
	"context"
	"errors"
	"testing"

	"clearspend/internal/core"
)

type fakeDoc struct {
	entries  []Entry
	loadErr  error
	storeErr error
	stores   int
}

func (f *fakeDoc) Load(context.Context) ([]Entry, error) {
	return f.entries, f.loadErr
}

func (f *fakeDoc) Store(_ context.Context, entries []Entry) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stores++
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		copied[i] = Entry{Name: e.Name, Keywords: append([]string(nil), e.Keywords...)}
	}
	f.entries = copied
	return nil
}

func newLoaded(t *testing.T, doc *fakeDoc) *Store {
	t.Helper()
	s := New(doc)
	s.Load(context.Background())
	return s
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	cases := []struct {
		name string
		doc  *fakeDoc
	}{
		{"missing document", &fakeDoc{loadErr: errors.New("no such file")}},
		{"empty document", &fakeDoc{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newLoaded(t, tc.doc)
			names := s.Categories()
			if len(names) == 0 {
				t.Fatal("expected default taxonomy")
			}
			if names[0] != core.CategoryUncategorized {
				t.Fatalf("first category = %q, want %q", names[0], core.CategoryUncategorized)
			}
			kws, ok := s.Keywords("Groceries")
			if !ok || len(kws) == 0 {
				t.Fatal("expected seeded Groceries keywords")
			}
		})
	}
}

func TestLoadKeepsDocumentOrder(t *testing.T) {
	doc := &fakeDoc{entries: []Entry{
		{Name: "Zulu", Keywords: []string{"z"}},
		{Name: "Alpha", Keywords: []string{"a"}},
	}}
	s := newLoaded(t, doc)
	names := s.Categories()
	if len(names) != 2 || names[0] != "Zulu" || names[1] != "Alpha" {
		t.Fatalf("order not preserved: %v", names)
	}
}

func TestAddCategory(t *testing.T) {
	doc := &fakeDoc{entries: []Entry{{Name: core.CategoryUncategorized}}}
	s := newLoaded(t, doc)

	added, err := s.AddCategory(context.Background(), "Groceries")
	if err != nil || !added {
		t.Fatalf("add: added=%v err=%v", added, err)
	}
	if doc.stores != 1 {
		t.Fatalf("expected one persist, got %d", doc.stores)
	}

	added, err = s.AddCategory(context.Background(), "Groceries")
	if err != nil || added {
		t.Fatalf("duplicate must be a no-op: added=%v err=%v", added, err)
	}
	added, err = s.AddCategory(context.Background(), "   ")
	if err != nil || added {
		t.Fatalf("blank must be a no-op: added=%v err=%v", added, err)
	}
	if doc.stores != 1 {
		t.Fatalf("no-ops must not persist, got %d stores", doc.stores)
	}
}

func TestAddKeyword(t *testing.T) {
	doc := &fakeDoc{entries: []Entry{{Name: "Groceries", Keywords: []string{"tesco"}}}}
	s := newLoaded(t, doc)
	ctx := context.Background()

	t.Run("trims and appends", func(t *testing.T) {
		added, err := s.AddKeyword(ctx, "Groceries", "  lidl  ")
		if err != nil || !added {
			t.Fatalf("added=%v err=%v", added, err)
		}
		kws, _ := s.Keywords("Groceries")
		if len(kws) != 2 || kws[1] != "lidl" {
			t.Fatalf("keywords = %v", kws)
		}
	})

	t.Run("empty after trim is a no-op", func(t *testing.T) {
		added, err := s.AddKeyword(ctx, "Groceries", "   ")
		if err != nil || added {
			t.Fatalf("added=%v err=%v", added, err)
		}
	})

	t.Run("duplicate is a no-op", func(t *testing.T) {
		added, err := s.AddKeyword(ctx, "Groceries", "tesco")
		if err != nil || added {
			t.Fatalf("added=%v err=%v", added, err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := s.AddKeyword(ctx, "Nope", "kw")
		if !errors.Is(err, core.ErrUnknownCategory) {
			t.Fatalf("err = %v, want ErrUnknownCategory", err)
		}
	})
}

func TestPersistFailureRollsBack(t *testing.T) {
	doc := &fakeDoc{entries: []Entry{{Name: "Groceries"}}}
	s := newLoaded(t, doc)
	doc.storeErr = errors.New("disk full")

	if _, err := s.AddCategory(context.Background(), "Travel"); err == nil {
		t.Fatal("expected persist error")
	}
	if s.Has("Travel") {
		t.Fatal("failed persist must roll back the category")
	}

	if _, err := s.AddKeyword(context.Background(), "Groceries", "aldi"); err == nil {
		t.Fatal("expected persist error")
	}
	kws, _ := s.Keywords("Groceries")
	if len(kws) != 0 {
		t.Fatalf("failed persist must roll back the keyword, got %v", kws)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	doc := &fakeDoc{entries: []Entry{{Name: "Groceries", Keywords: []string{"tesco"}}}}
	s := newLoaded(t, doc)

	snap := s.Snapshot()
	snap[0].Keywords[0] = "mutated"

	kws, _ := s.Keywords("Groceries")
	if kws[0] != "tesco" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}
