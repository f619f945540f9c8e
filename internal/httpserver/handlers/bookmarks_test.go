package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/session"
)

type fakeListStore struct {
	rows    map[string][]*domain.Bookmark
	deleted []string
}

func (s *fakeListStore) List(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	return s.rows[owner], nil
}

func (s *fakeListStore) Delete(ctx context.Context, owner, id string) error {
	s.deleted = append(s.deleted, owner+"/"+id)
	for _, bm := range s.rows[owner] {
		if bm.ID == id {
			return nil
		}
	}
	return domain.ErrNotFound
}

func testDeps(store *fakeListStore) deps.Deps {
	log := logger.New("error", false)
	return deps.Deps{
		Logger:   log,
		Sessions: session.NewManager(store, log),
	}
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(session.WithUser(req.Context(), "alice"))
}

func TestListBookmarks(t *testing.T) {
	store := &fakeListStore{rows: map[string][]*domain.Bookmark{
		"alice": {
			{ID: "1", URL: "https://a.example/", Tags: []string{"work"}},
			{ID: "2", URL: "https://b.example/", Tags: []string{"home"}},
		},
	}}
	d := testDeps(store)

	rec := httptest.NewRecorder()
	ListBookmarks(d)(rec, authedRequest(http.MethodGet, "/api/bookmarks", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Bookmarks, 2)
	assert.Empty(t, resp.Filters)
}

func TestListBookmarksUnauthenticated(t *testing.T) {
	d := testDeps(&fakeListStore{rows: map[string][]*domain.Bookmark{}})

	rec := httptest.NewRecorder()
	ListBookmarks(d)(rec, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleFilterNarrowsView(t *testing.T) {
	store := &fakeListStore{rows: map[string][]*domain.Bookmark{
		"alice": {
			{ID: "1", URL: "https://a.example/", Tags: []string{"work"}},
			{ID: "2", URL: "https://b.example/", Tags: []string{"home"}},
		},
	}}
	d := testDeps(store)

	rec := httptest.NewRecorder()
	ToggleFilter(d)(rec, authedRequest(http.MethodPost, "/api/bookmarks/filter", `{"tag":"work"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ListBookmarks(d)(rec, authedRequest(http.MethodGet, "/api/bookmarks", ""))
	var resp listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"work"}, resp.Filters)
	require.Len(t, resp.Bookmarks, 1)
	assert.Equal(t, "1", resp.Bookmarks[0].ID)
	assert.Equal(t, 2, resp.Total)
}

func TestToggleFilterRequiresTag(t *testing.T) {
	d := testDeps(&fakeListStore{rows: map[string][]*domain.Bookmark{}})

	rec := httptest.NewRecorder()
	ToggleFilter(d)(rec, authedRequest(http.MethodPost, "/api/bookmarks/filter", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorder(t *testing.T) {
	store := &fakeListStore{rows: map[string][]*domain.Bookmark{
		"alice": {
			{ID: "1", URL: "https://a.example/"},
			{ID: "2", URL: "https://b.example/"},
		},
	}}
	d := testDeps(store)

	rec := httptest.NewRecorder()
	Reorder(d)(rec, authedRequest(http.MethodPost, "/api/bookmarks/reorder", `{"from":0,"to":1}`))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	Reorder(d)(rec, authedRequest(http.MethodPost, "/api/bookmarks/reorder", `{"from":5,"to":0}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteBookmark(t *testing.T) {
	store := &fakeListStore{rows: map[string][]*domain.Bookmark{
		"alice": {{ID: "1", URL: "https://a.example/"}},
	}}
	d := testDeps(store)

	r := chi.NewRouter()
	r.Delete("/api/bookmarks/{id}", DeleteBookmark(d))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/bookmarks/1", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"alice/1"}, store.deleted)

	// Already gone: still a success, the list just reconciles.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/bookmarks/1", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTags(t *testing.T) {
	store := &fakeListStore{rows: map[string][]*domain.Bookmark{
		"alice": {
			{ID: "1", URL: "https://a.example/", Tags: []string{"work", "go"}},
			{ID: "2", URL: "https://b.example/", Tags: []string{"go", "home"}},
		},
	}}
	d := testDeps(store)

	rec := httptest.NewRecorder()
	Tags(d)(rec, authedRequest(http.MethodGet, "/api/tags", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"work", "go", "home"}, resp.Tags)
}
