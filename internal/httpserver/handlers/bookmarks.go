package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/ingest"
	"github.com/kbazin/marks/internal/list"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/session"
)

type addBookmarkRequest struct {
	URL  string `json:"url"`
	Tags string `json:"tags"`
}

type addFailedResponse struct {
	Error string `json:"error"`
	URL   string `json:"url"`
	Tags  string `json:"tags"`
}

type listResponse struct {
	Bookmarks []*domain.Bookmark `json:"bookmarks"`
	Filters   []string           `json:"filters"`
	Total     int                `json:"total"`
}

type filterRequest struct {
	Tag string `json:"tag"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sessionList resolves the authenticated caller's list controller. A nil
// return means the response has already been written.
func sessionList(w http.ResponseWriter, r *http.Request, d deps.Deps) *list.Controller {
	owner, ok := session.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return nil
	}
	ctl, err := d.Sessions.Session(r.Context(), owner)
	if err != nil {
		d.Logger.Error("session load failed",
			logger.String("owner", owner),
			logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "bookmark list unavailable"})
		return nil
	}
	return ctl
}

// AddBookmark runs the full ingestion pipeline for one submitted URL.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		var req addBookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		var cache ingest.MetadataCache
		if d.MetadataTTL > 0 {
			cache = d.Store
		}
		orch := ingest.New(d.Store, cache, d.MetadataTTL, d.Titles, d.Summaries, d.Icons, ctl, d.Logger)

		stored, err := orch.Add(r.Context(), req.URL, req.Tags)
		if err != nil {
			var failed *ingest.AddFailedError
			switch {
			case errors.Is(err, domain.ErrInvalidURL):
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid url"})
			case errors.As(err, &failed):
				// Echo the raw input back so the client can restore the form.
				writeJSON(w, http.StatusBadGateway, addFailedResponse{
					Error: "failed to add bookmark",
					URL:   failed.RawURL,
					Tags:  failed.RawTags,
				})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to add bookmark"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, stored)
	}
}

// ListBookmarks returns the caller's current filtered view, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		visible := make([]*domain.Bookmark, 0, ctl.Len())
		for bm := range ctl.FilteredView() {
			visible = append(visible, bm)
		}

		writeJSON(w, http.StatusOK, listResponse{
			Bookmarks: visible,
			Filters:   ctl.ActiveFilters(),
			Total:     ctl.Len(),
		})
	}
}

// ToggleFilter flips one tag in the caller's active filter set.
func ToggleFilter(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		var req filterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tag == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tag is required"})
			return
		}

		ctl.ToggleTagFilter(req.Tag)
		writeJSON(w, http.StatusOK, struct {
			Filters []string `json:"filters"`
		}{Filters: ctl.ActiveFilters()})
	}
}

// Reorder moves a bookmark inside the caller's visible list.
func Reorder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		var req reorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		if err := ctl.Reorder(req.From, req.To); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteBookmark removes a bookmark from the store and the visible list.
// Deleting an id that is already gone still succeeds: the list is simply
// reconciled to not contain it.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
			return
		}

		if err := ctl.Delete(r.Context(), id); err != nil {
			d.Logger.Error("bookmark delete failed",
				logger.String("id", id),
				logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to delete bookmark"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Tags lists every distinct tag in the caller's list, first-seen order.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctl := sessionList(w, r, d)
		if ctl == nil {
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Tags    []string `json:"tags"`
			Filters []string `json:"filters"`
		}{Tags: ctl.Tags(), Filters: ctl.ActiveFilters()})
	}
}
