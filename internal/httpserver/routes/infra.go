package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/httpserver/handlers"
	"github.com/kbazin/marks/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/infra", handlers.Infra(d))
}
