package http

import (
	"net/http"

	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// ping handles GET /api/ping, the reachability probe of the client.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.PingResponse{
		Status:       "ok",
		BuildVersion: h.services.AppInfoService.GetAppVersion(r.Context()),
	}, http.StatusOK)
}
