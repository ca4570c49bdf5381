package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// withTraceID attaches a request-scoped logger carrying the trace id and,
// for mutation requests, the idempotency key. A trace id sent by the client
// is kept; otherwise a new one is generated. The id is echoed back in the
// response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(models.HeaderTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		idempotencyKey := r.Header.Get(models.HeaderIdempotencyKey)

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			c = c.Str("trace_id", traceID)
			if idempotencyKey != "" {
				c = c.Str("idempotency_key", idempotencyKey)
			}
			return c
		})

		w.Header().Set(models.HeaderTraceID, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
