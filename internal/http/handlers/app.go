package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	videoprovider "videostudio/internal/providers/video"
	"videostudio/internal/videojob"
)

const msgMissingAPIKey = "Server configuration error: API key not found."

// VideoService is the video workflow consumed by the handlers.
type VideoService interface {
	Reconcile(ctx context.Context, id string) (*videojob.VideoView, error)
	Delete(ctx context.Context, id string) (*videoprovider.DeleteResult, error)
	Create(ctx context.Context, in videojob.CreateInput) (*videojob.VideoView, error)
	Remix(ctx context.Context, sourceID, prompt string) (*videojob.VideoView, error)
	History(ctx context.Context) ([]domain.VideoRecord, error)
	ClearHistory(ctx context.Context) error
	RemoteConfigured() bool
	StorageMode() domain.StorageMode
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Videos VideoService
	DB     Pinger
	Logger infra.Logger
}

func NewApp(videos VideoService, db Pinger, logger infra.Logger) *App {
	return &App{Videos: videos, DB: db, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]string{"error": msg, "code": errCode})
}

// fail maps a service error onto the HTTP response.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.StatusCode(err)
	msg := err.Error()
	code := "internal"
	var perr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrMissingConfig):
		msg = msgMissingAPIKey
		code = "config"
	case errors.As(err, &perr):
		msg = perr.Message
		code = "provider"
	case errors.Is(err, domain.ErrNotFound):
		code = "not_found"
	case errors.Is(err, domain.ErrInvalidVideoJob):
		code = "bad_request"
	}
	event := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.Logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	a.error(w, status, code, msg)
}

// RequireRemote rejects requests that need the remote API when no API key is configured.
func (a *App) RequireRemote(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Videos.RemoteConfigured() {
			a.Logger.Error().Str("path", r.URL.Path).Msg("openai api key is not set")
			a.error(w, http.StatusInternalServerError, "config", msgMissingAPIKey)
			return
		}
		next.ServeHTTP(w, r)
	})
}
