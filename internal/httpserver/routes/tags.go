package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/httpserver/handlers"
	"github.com/kbazin/marks/internal/httpserver/mw"
)

func init() { Register(registerTags) }

func registerTags(r chi.Router, d deps.Deps) {
	r.With(mw.Authenticate(d.Auth, d.Logger)).Get("/api/tags", handlers.Tags(d))
}
