// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-workout-keeper/internal/app"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// createEntity handles POST /api/{entity}. The entity id is read from the
// payload.
func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	h.applyMutation(w, r, models.OperationCreate)
}

// updateEntity handles PUT /api/{entity}/{entityID}.
func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	h.applyMutation(w, r, models.OperationUpdate)
}

// deleteEntity handles DELETE /api/{entity}/{entityID}.
func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	h.applyMutation(w, r, models.OperationDelete)
}

func (h *Handler) applyMutation(w http.ResponseWriter, r *http.Request, op models.Operation) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	entityType, ok := models.EntityTypeFromPath(chi.URLParam(r, "entity"))
	if !ok {
		http.Error(w, app.MsgUnknownEntity, http.StatusNotFound)
		return
	}

	key := strings.TrimSpace(r.Header.Get(models.HeaderIdempotencyKey))
	if key == "" {
		log.Warn().Str("func", "*Handler.applyMutation").Msg("request without idempotency key")
		http.Error(w, app.MsgMissingIdempotencyKey, http.StatusBadRequest)
		return
	}

	clientTimestamp, err := parseClientTimestamp(r.Header.Get(models.HeaderClientTimestamp))
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyMutation").Msg("invalid client timestamp")
		http.Error(w, app.MsgInvalidClientTimestamp, http.StatusBadRequest)
		return
	}

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyMutation").Msg("failed to read request body")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	mutation := models.ServerMutation{
		UserID:          userID,
		IdempotencyKey:  key,
		EntityType:      entityType,
		Operation:       op,
		ClientTimestamp: clientTimestamp,
	}
	if op == models.OperationCreate {
		mutation.EntityID = payloadEntityID(body)
	} else {
		mutation.EntityID = chi.URLParam(r, "entityID")
	}
	if op != models.OperationDelete {
		mutation.Payload = body
	}

	applied, err := h.services.MutationService.Apply(ctx, mutation)
	if err != nil {
		status := statusFromError(err)
		message := messageFromError(err)
		if status == http.StatusUnprocessableEntity {
			message = err.Error()
		}
		if status >= http.StatusInternalServerError {
			log.Err(err).Str("func", "*Handler.applyMutation").Str("idempotency_key", key).Msg("mutation failed")
		}
		http.Error(w, message, status)
		return
	}

	status := http.StatusCreated
	if applied.Replayed {
		w.Header().Set(models.HeaderIdempotentReplay, "true")
		status = http.StatusOK
	}

	utils.WriteJSON(w, models.DeliveryResponse{ID: applied.ServerID, EntityID: applied.EntityID}, status)
}

// parseClientTimestamp accepts an empty header as "now".
func parseClientTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}

	return time.Parse(models.ClientTimestampLayout, raw)
}

func payloadEntityID(body []byte) string {
	var envelope struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.ID
}

func messageFromError(err error) string {
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		return app.MsgStorageUnavailable
	default:
		if msg, ok := messageForStatus[statusFromError(err)]; ok {
			return msg
		}
		return app.MsgInternalServerError
	}
}
