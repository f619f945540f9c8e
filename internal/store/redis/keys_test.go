package redis

import "testing"

func TestBookmarkKeysAreOwnerScoped(t *testing.T) {
	a := BookmarkKey("alice", "42")
	b := BookmarkKey("bob", "42")
	if a == b {
		t.Errorf("keys for different owners collide: %q", a)
	}

	if got, want := a, "marks:user:alice:bookmark:42"; got != want {
		t.Errorf("BookmarkKey = %q, want %q", got, want)
	}
	if got, want := AllBookmarksKey("alice"), "marks:user:alice:bookmarks:all"; got != want {
		t.Errorf("AllBookmarksKey = %q, want %q", got, want)
	}
}

func TestMetaCacheKeyStable(t *testing.T) {
	k1 := MetaCacheKey("https://example.com/")
	k2 := MetaCacheKey("https://example.com/")
	if k1 != k2 {
		t.Errorf("same url produced different cache keys: %q vs %q", k1, k2)
	}
	if k1 == MetaCacheKey("https://example.org/") {
		t.Error("different urls produced the same cache key")
	}
	if len(k1) != len(KeyPrefixMetaCache)+16 {
		t.Errorf("unexpected cache key length: %q", k1)
	}
}
