package ref_test

import (
	"reflect"
	"testing"

	"github.com/bdobrica/Selah/internal/selah/ref"
)

func TestExtract_NoReferences(t *testing.T) {
	for _, text := range []string{
		"",
		"hello there",
		"meet me at 3",
	} {
		query, cits := ref.Extract(text)
		if len(cits) != 0 {
			t.Errorf("Extract(%q): expected no citations, got %#v", text, cits)
		}
		if query != "" {
			t.Errorf("Extract(%q): expected empty query, got %q", text, query)
		}
	}
}

func TestExtract_SingleReference(t *testing.T) {
	query, cits := ref.Extract("have you read john 3:16?")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	c := cits[0]
	if c.Book != "John" || c.VerseRef != "3:16" || c.FullRef != "John 3:16" {
		t.Errorf("unexpected citation: %#v", c)
	}
	if query != "John+3:16" {
		t.Errorf("unexpected query: %q", query)
	}
}

func TestExtract_Range(t *testing.T) {
	_, cits := ref.Extract("John 3:16-18 is a favourite")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	if cits[0].FullRef != "John 3:16-18" {
		t.Errorf("unexpected full ref: %q", cits[0].FullRef)
	}
}

func TestExtract_GluedBookAndChapter(t *testing.T) {
	_, cits := ref.Extract("John3:16")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	if cits[0].FullRef != "John 3:16" {
		t.Errorf("unexpected full ref: %q", cits[0].FullRef)
	}
}

func TestExtract_BookInheritance(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"John 3:16, 4:1", []string{"John 3:16", "John 4:1"}},
		{"Romans 8:1 and 8:3", []string{"Romans 8:1", "Romans 8:3"}},
		{"Romans 8:1 then 8:3 also 8:5", []string{"Romans 8:1", "Romans 8:3", "Romans 8:5"}},
		{"John 3:16 and Romans 8:1 and 8:3", []string{"John 3:16", "Romans 8:1", "Romans 8:3"}},
	}
	for _, tc := range cases {
		_, cits := ref.Extract(tc.text)
		got := make([]string, len(cits))
		for i, c := range cits {
			got[i] = c.FullRef
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Extract(%q): got %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtract_NumericBookPrefix(t *testing.T) {
	_, cits := ref.Extract("read 1 john 4:8 today")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	if cits[0].Book != "1 John" {
		t.Errorf("expected book %q, got %q", "1 John", cits[0].Book)
	}
	if cits[0].FullRef != "1 John 4:8" {
		t.Errorf("unexpected full ref: %q", cits[0].FullRef)
	}
}

func TestExtract_MultiWordBook(t *testing.T) {
	_, cits := ref.Extract("song of solomon 2:1 is lovely")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	if cits[0].Book != "Song of Solomon" {
		t.Errorf("expected book %q, got %q", "Song of Solomon", cits[0].Book)
	}
}

func TestExtract_OrphanVerseDropped(t *testing.T) {
	// A chapter:verse with no book named and nothing earlier to inherit is
	// skipped; a later complete reference still extracts.
	_, cits := ref.Extract("3:16 and John 4:1")
	got := make([]string, len(cits))
	for i, c := range cits {
		got[i] = c.FullRef
	}
	if !reflect.DeepEqual(got, []string{"John 4:1"}) {
		t.Errorf("got %v, want [John 4:1]", got)
	}
}

func TestExtract_OrderPreserved(t *testing.T) {
	_, cits := ref.Extract("Romans 8:1 before John 3:16")
	if len(cits) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(cits))
	}
	if cits[0].Book != "Romans" || cits[1].Book != "John" {
		t.Errorf("input order not preserved: %#v", cits)
	}
}

func TestCanonicalQuery(t *testing.T) {
	_, cits := ref.Extract("John 3:16-18 and Romans 8:1")
	got := ref.CanonicalQuery(cits)
	want := "John+3:16-18+Romans+8:1"
	if got != want {
		t.Errorf("CanonicalQuery: got %q, want %q", got, want)
	}
	if ref.CanonicalQuery(nil) != "" {
		t.Error("CanonicalQuery(nil) should be empty")
	}
}

func TestCanonicalQuery_NumericPrefix(t *testing.T) {
	_, cits := ref.Extract("1 John 4:8")
	if got := ref.CanonicalQuery(cits); got != "1+John+4:8" {
		t.Errorf("got %q, want %q", got, "1+John+4:8")
	}
}

func TestApplyAliases(t *testing.T) {
	aliases := map[string]string{"jn": "John", "rom": "Romans"}
	_, cits := ref.Extract("jn 3:16 and rom 8:1 and mark 1:1")
	out := ref.ApplyAliases(cits, aliases)
	want := []string{"John 3:16", "Romans 8:1", "Mark 1:1"}
	got := make([]string, len(out))
	for i, c := range out {
		got[i] = c.FullRef
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// Inputs are not mutated.
	if cits[0].Book != "Jn" {
		t.Errorf("input citation mutated: %#v", cits[0])
	}
}

func TestExtract_EnDashRange(t *testing.T) {
	_, cits := ref.Extract("John 3:16–18")
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(cits))
	}
	if cits[0].VerseRef != "3:16-18" {
		t.Errorf("en dash not normalized: %q", cits[0].VerseRef)
	}
}
