package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

type HealthHandler struct {
	// DB is pinged when set.
	DB *sql.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
