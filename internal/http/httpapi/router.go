package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"videostudio/internal/http/handlers"
	"videostudio/internal/infra"
	"videostudio/internal/middleware"
)

// Options configures the cross-cutting middleware around the handlers.
type Options struct {
	Logger             infra.Logger
	Password           string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// FilesDir is served under /files for the local filesystem storage mode.
	FilesDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSAllowedOrigins),
	)

	r.Get("/healthz", app.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.FilesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(opts.FilesDir))))
	}

	r.Route("/videos", func(r chi.Router) {
		r.Use(
			middleware.RateLimit(opts.RateLimitPerMinute, time.Minute),
			middleware.PasswordHash(opts.Password),
		)

		r.Get("/history", app.HistoryList)
		r.Delete("/history", app.HistoryClear)

		r.Group(func(r chi.Router) {
			r.Use(app.RequireRemote)
			r.Post("/", app.VideosCreate)
			r.Get("/{id}", app.VideoGet)
			r.Delete("/{id}", app.VideoDelete)
			r.Post("/{id}/remix", app.VideoRemix)
		})
	})

	return r
}
