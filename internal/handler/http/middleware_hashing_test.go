// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// --- Helpers ---

const testHashKey = "hash-key"

func executeHashing(h *Handler, body []byte, signature string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/templates", bytes.NewReader(body))
	req = injectNopLogger(req)
	if signature != "" {
		req.Header.Set(models.HeaderPayloadHash, signature)
	}
	rr := httptest.NewRecorder()
	h.verifyPayloadHash(next).ServeHTTP(rr, req)
	return rr
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

// --- verifyPayloadHash tests ---

func TestVerifyPayloadHash_TableTest(t *testing.T) {
	body := []byte(`{"id":"t-1","name":"Push day"}`)
	signer := utils.NewHasher(testHashKey)

	tests := []struct {
		name       string
		hashKey    string
		signature  string
		wantStatus int
		wantNext   bool
	}{
		{name: "no key configured, no header", wantStatus: http.StatusOK, wantNext: true},
		{name: "no key configured, garbage header ignored", signature: "zz", wantStatus: http.StatusOK, wantNext: true},
		{name: "key configured, header missing", hashKey: testHashKey, wantStatus: http.StatusOK, wantNext: true},
		{name: "key configured, valid signature", hashKey: testHashKey, signature: signer.Sum(body), wantStatus: http.StatusOK, wantNext: true},
		{name: "key configured, signature of other body", hashKey: testHashKey, signature: signer.Sum([]byte("other")), wantStatus: http.StatusBadRequest},
		{name: "key configured, signature not hex", hashKey: testHashKey, signature: "not-hex", wantStatus: http.StatusBadRequest},
		{name: "signed with another key", hashKey: testHashKey, signature: utils.NewHasher("other").Sum(body), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, utils.NewHasher(tt.hashKey), logger.Nop())

			called := false
			rr := executeHashing(h, body, tt.signature, okHandler(&called))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, called)
		})
	}
}

func TestVerifyPayloadHash_BodyRestoredForNextHandler(t *testing.T) {
	body := []byte(`{"id":"e-1","name":"Barbell"}`)
	h := NewHandler(nil, utils.NewHasher(testHashKey), logger.Nop())

	var received []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		received, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	rr := executeHashing(h, body, h.hasher.Sum(body), next)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, body, received)
}

// Пул HMAC не должен смешивать состояние между горутинами.
func TestVerifyPayloadHash_ConcurrentRequests(t *testing.T) {
	h := NewHandler(nil, utils.NewHasher(testHashKey), logger.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var wg sync.WaitGroup
	codes := make([]int, 40)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := []byte(`{"id":"` + string(rune('a'+i%26)) + `"}`)
			signature := h.hasher.Sum(body)
			if i%2 == 1 {
				signature = h.hasher.Sum([]byte("tampered"))
			}
			codes[i] = executeHashing(h, body, signature, next).Code
		}()
	}
	wg.Wait()

	for i, code := range codes {
		if i%2 == 1 {
			assert.Equal(t, http.StatusBadRequest, code)
		} else {
			assert.Equal(t, http.StatusOK, code)
		}
	}
}
