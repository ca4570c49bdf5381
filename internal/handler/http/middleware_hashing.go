package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-workout-keeper/internal/app"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// verifyPayloadHash checks the HashSHA256 header against the HMAC of the
// request body. Requests without the header pass unchecked, as do all
// requests when no hash key is configured.
func (h *Handler) verifyPayloadHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(models.HeaderPayloadHash)
		if !h.hasher.Enabled() || signature == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.verifyPayloadHash").Msg("failed to read request body")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, signature) {
			log.Error().Str("func", "*Handler.verifyPayloadHash").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			http.Error(w, app.MsgHashMismatch, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
