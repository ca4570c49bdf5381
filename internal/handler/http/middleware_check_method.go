// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
)

// CheckHTTPMethod is installed as the router's MethodNotAllowed handler. A
// path that exists but does not serve the request method answers 404, the
// same as an unknown path, so clients cannot enumerate routes by method.
//
// The lookup goes through [chi.Mux.Match], so parameterised mutation routes
// such as /api/{entity}/{entityID} are resolved like any other.
//
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Debug().
			Str("func", "CheckHTTPMethod").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method is not served by route")
		http.NotFound(w, r)
	}
}
