package api

import (
	"context"
	"net/http"
	"time"

	v1 "github.com/deepagents/control/api/go/v1"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, v1.Health{Status: "ok", Version: h.version})
	return nil
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, v1.Health{Status: "unavailable", Version: h.version})
		return nil
	}
	writeJSON(w, http.StatusOK, v1.Health{Status: "ready", Version: h.version})
	return nil
}
