package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxPayloadBytes = 1 << 20

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/ping", h.ping)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth, middleware.RequestSize(maxPayloadBytes), h.verifyPayloadHash)

		r.Post("/api/{entity}", h.createEntity)
		r.Put("/api/{entity}/{entityID}", h.updateEntity)
		r.Delete("/api/{entity}/{entityID}", h.deleteEntity)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
