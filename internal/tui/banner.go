package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// renderBanner draws the one-line sync status shown above every screen.
func renderBanner(s models.SyncStatusSnapshot, spin syncModel) string {
	parts := make([]string, 0, 5)

	if s.IsOnline {
		parts = append(parts, onlineStyle.Render("● в сети"))
	} else {
		parts = append(parts, offlineStyle.Render("○ офлайн"))
	}

	switch s.EngineState {
	case models.EngineDraining:
		parts = append(parts, spin.View()+" синхронизация")
	case models.EnginePaused:
		parts = append(parts, warnStyle.Render("пауза"))
	default:
		parts = append(parts, "ожидание")
	}

	switch {
	case s.PendingCount == 0 && s.FailedCount == 0:
		parts = append(parts, "всё синхронизировано")
	default:
		parts = append(parts, fmt.Sprintf("в очереди: %d", s.PendingCount))
		if s.FailedCount > 0 {
			parts = append(parts, errorStyle.Render(fmt.Sprintf("с ошибкой: %d", s.FailedCount)))
		}
	}

	if s.NeedsReauth {
		parts = append(parts, warnStyle.Render("требуется вход (l)"))
	}

	return bannerStyle.Render(strings.Join(parts, " │ "))
}
