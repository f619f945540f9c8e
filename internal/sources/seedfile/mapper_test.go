package seedfile

import (
	"testing"

	"github.com/kbazin/marks/internal/fetch"
)

func testMapper() *Mapper {
	return NewMapper(fetch.IconResolver{
		Template: "https://icons.test/%s",
		Fallback: "/icons/default.svg",
	})
}

func TestMapSeed(t *testing.T) {
	seed := Seed{
		{Title: "Example", Href: "example.com", Tags: []string{" News ", "Go"}},
		{Title: "", Href: "https://other.example.org/page"},
		{Title: "No href, skipped"},
		{Title: "Bad href, skipped", Href: "exa mple.com"},
	}

	got, err := testMapper().Map(seed)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Map returned %d bookmarks, want 2", len(got))
	}

	first := got[0]
	if first.URL != "https://example.com/" {
		t.Errorf("URL = %q, want normalized https://example.com/", first.URL)
	}
	if first.Title != "Example" {
		t.Errorf("Title = %q, want Example", first.Title)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "news" || first.Tags[1] != "go" {
		t.Errorf("Tags = %v, want [news go]", first.Tags)
	}
	if first.Favicon != "https://icons.test/example.com" {
		t.Errorf("Favicon = %q", first.Favicon)
	}

	second := got[1]
	if second.Title != "other.example.org" {
		t.Errorf("missing title should fall back to host, got %q", second.Title)
	}
}

func TestMapEmptySeed(t *testing.T) {
	if _, err := testMapper().Map(Seed{}); err == nil {
		t.Error("expected error for empty seed")
	}
	if _, err := testMapper().Map(Seed{{Title: "x"}}); err == nil {
		t.Error("expected error when no entry survives validation")
	}
}
