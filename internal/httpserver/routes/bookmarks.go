package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/httpserver/handlers"
	"github.com/kbazin/marks/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RateRefillPerMin,
		TrustProxy:        d.TrustProxy,
	})

	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(mw.Authenticate(d.Auth, d.Logger))

		r.Get("/", handlers.ListBookmarks(d))
		r.With(limit).Post("/", handlers.AddBookmark(d))
		r.Post("/filter", handlers.ToggleFilter(d))
		r.Post("/reorder", handlers.Reorder(d))
		r.With(limit).Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
