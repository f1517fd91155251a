package handlers

import (
	"log/slog"
	"net/http"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.TablesService.Health(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "health check failed", "error", err)
		WriteError(w, "Database unavailable.", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, health, http.StatusOK)
}
