package jsondoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clearspend/internal/categories"
)

func TestRoundTripPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	doc := New(path)
	ctx := context.Background()

	in := []categories.Entry{
		{Name: "Uncategorized"},
		{Name: "Zulu", Keywords: []string{"z1", "z2"}},
		{Name: "Alpha", Keywords: []string{"a1"}},
	}
	if err := doc.Store(ctx, in); err != nil {
		t.Fatalf("store: %v", err)
	}

	out, err := doc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d entries, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Name != in[i].Name {
			t.Fatalf("entry %d: name %q, want %q", i, out[i].Name, in[i].Name)
		}
		if len(out[i].Keywords) != len(in[i].Keywords) {
			t.Fatalf("entry %d: keywords %v, want %v", i, out[i].Keywords, in[i].Keywords)
		}
		for j := range in[i].Keywords {
			if out[i].Keywords[j] != in[i].Keywords[j] {
				t.Fatalf("entry %d: keywords %v, want %v", i, out[i].Keywords, in[i].Keywords)
			}
		}
	}
}

func TestLoadOriginalObjectShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	raw := `{"Uncategorized": [], "Groceries": ["tesco", "lidl"], "Phone Bill": ["gomo"]}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"Uncategorized", "Groceries", "Phone Bill"}
	if len(out) != len(want) {
		t.Fatalf("got %d entries, want %d", len(out), len(want))
	}
	for i, name := range want {
		if out[i].Name != name {
			t.Fatalf("entry %d: %q, want %q", i, out[i].Name, name)
		}
	}
	if len(out[1].Keywords) != 2 || out[1].Keywords[0] != "tesco" {
		t.Fatalf("Groceries keywords = %v", out[1].Keywords)
	}
}

func TestLoadMissingFile(t *testing.T) {
	doc := New(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := doc.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
