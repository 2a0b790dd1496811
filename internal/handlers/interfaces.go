package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fitflix/backend/internal/auth"
	"github.com/fitflix/backend/internal/models"
)

// AuthService captures the account operations required by the auth handlers.
type AuthService interface {
	Register(ctx context.Context, creds auth.Credentials) (int64, error)
	Login(ctx context.Context, creds auth.Credentials) (auth.LoginResult, error)
	Authenticate(ctx context.Context, authorization string) (models.Identity, error)
}

// LoginRecorder counts login attempts by outcome.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

// VideoGate serves catalog entries subject to the caller's purchases.
type VideoGate interface {
	ListVideos(ctx context.Context) []models.Video
	GetVideo(ctx context.Context, id int, identity models.Identity) (models.Video, error)
}

// MetricsExporter observes requests and exposes the collected series.
type MetricsExporter interface {
	LoginRecorder
	ObserveRequest(route, method string, status int, duration time.Duration)
	Handler() http.Handler
}
