package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. Everything except the health check sits behind
// the bearer-auth middleware.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Get("/api/ping", h.ping)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/", h.listEntries)
			r.Post("/", h.createEntry)
			r.Delete("/{entryID}", h.deleteEntry)
			r.Get("/{entryID}/tags", h.entryTags)
			r.Get("/{entryID}/media", h.entryMedia)
			r.Post("/{entryID}/media", h.attachMedia)
		})

		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", h.listTags)
			r.Post("/", h.createTag)
			r.Get("/by-name", h.findTagByName)
			r.Delete("/{tagID}", h.deleteTag)
		})

		r.Post("/api/sync/entries", h.pushSync)
	})

	return router
}
