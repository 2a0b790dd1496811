package app

import (
	"context"
	"fmt"

	"github.com/fitflix/backend/internal/access"
	"github.com/fitflix/backend/internal/auth"
	"github.com/fitflix/backend/internal/catalog"
	"github.com/fitflix/backend/internal/config"
	"github.com/fitflix/backend/internal/db"
	"github.com/fitflix/backend/internal/handlers"
	"github.com/fitflix/backend/internal/metrics"
	"github.com/fitflix/backend/internal/repositories"
	"github.com/fitflix/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. A nil pool selects the in-memory user store.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, m *metrics.Metrics) (handlers.Dependencies, error) {
	var users repositories.UserRepository
	if pool != nil {
		users = repositories.NewPostgresUserRepository(pool)
	} else {
		users = repositories.NewInMemoryUserRepository()
	}

	videos := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return handlers.Dependencies{}, err
		}
		videos = loaded
	}

	var presigner storage.Presigner
	if cfg.ObjectStore.Enabled() {
		store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("configure media store: %w", err)
		}
		presigner = store
	}

	if err := checkMediaLocations(videos, presigner != nil); err != nil {
		return handlers.Dependencies{}, err
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	return handlers.Dependencies{
		Auth: auth.NewService(users, tokens, cfg.BcryptCost),
		Videos: access.Gate{
			Catalog:  videos,
			URLs:     storage.NewURLResolver(presigner, cfg.ObjectStore.URLTTL),
			Recorder: m,
		},
		Metrics:        m,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSAllowedHosts,
	}, nil
}

// checkMediaLocations fails when the catalog names s3:// objects that no
// configured media store could presign.
func checkMediaLocations(videos *catalog.Catalog, haveStore bool) error {
	for _, v := range videos.All() {
		_, isS3, err := storage.ParseLocation(v.URL)
		if err != nil {
			return fmt.Errorf("catalog video %d: %w", v.ID, err)
		}
		if isS3 && !haveStore {
			return fmt.Errorf("catalog video %d uses %s but MEDIA_BUCKET is not set", v.ID, v.URL)
		}
	}
	return nil
}
