package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":      "ok",
		"storageMode": a.Videos.StorageMode(),
		"remote":      a.Videos.RemoteConfigured(),
	}
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("health: database unreachable")
			body["status"] = "degraded"
			a.json(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	a.json(w, http.StatusOK, body)
}
