package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitflix/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Logger         *slog.Logger
	Auth           AuthService
	Videos         VideoGate
	Metrics        MetricsExporter
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter wires every endpoint into a chi router.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	health := HealthHandler{}
	authHandler := AuthHandler{Auth: deps.Auth}
	videos := VideoHandler{Videos: deps.Videos}
	spa := SPAHandler{Dir: deps.StaticDir}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	if deps.Metrics != nil {
		authHandler.Metrics = deps.Metrics
		r.Use(middleware.Metrics(deps.Metrics))
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/healthz", health.Handle)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/videos", videos.List)
	r.With(middleware.RequireIdentity(deps.Auth)).Get("/videos/{id}", videos.Get)

	r.NotFound(spa.ServeHTTP)
	// The front-end router owns GET on paths the API only accepts POST on.
	r.MethodNotAllowed(spa.ServeHTTP)

	return r
}
