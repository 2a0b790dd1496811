package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fitflix/backend/internal/config"
	"github.com/fitflix/backend/internal/db"
	"github.com/fitflix/backend/internal/handlers"
	"github.com/fitflix/backend/internal/httpserver"
	"github.com/fitflix/backend/internal/logging"
	"github.com/fitflix/backend/internal/metrics"
	"github.com/fitflix/backend/internal/storage"
	"github.com/fitflix/backend/migrations"
)

// Run bootstraps the fitflix backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, seed, or upload")
	}

	loadDotEnv()

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	case "upload":
		return runUpload(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// loadDotEnv reads .env when present. Variables already set in the
// environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	var pool db.Pool
	if cfg.DatabaseURL != "" {
		pgPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pgPool.Close()

		applied, err := db.Migrate(ctx, pgPool, migrations.FS)
		if err != nil {
			return err
		}
		logger.Info("database ready", "migrationsApplied", len(applied))
		pool = pgPool
	} else {
		logger.Warn("DATABASE_URL not set, accounts are kept in memory and lost on restart")
	}

	m := metrics.New()
	deps, err := buildDependencies(ctx, pool, cfg, m)
	if err != nil {
		return err
	}
	deps.Logger = logger

	srv := httpserver.New(cfg.AppPort, handlers.NewRouter(deps))

	logger.Info("starting http server", "port", cfg.AppPort)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func runMigrations(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to run migrations")
	}

	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch command {
	case "status":
		states, err := db.Status(ctx, pool, migrations.FS)
		if err != nil {
			return err
		}
		for _, s := range states {
			mark := " "
			if s.Applied {
				mark = "x"
			}
			fmt.Printf("[%s] %s\n", mark, s.Name)
		}
		return nil
	case "up", "":
		applied, err := db.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("no migrations to apply")
			return nil
		}
		for _, name := range applied {
			fmt.Printf("applied migration %s\n", name)
		}
		return nil
	case "down":
		return errors.New("down migrations are not supported yet")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

func runSeed(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected seed name (e.g. dev)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to apply seeds")
	}

	seedPath, err := resolveSeedPath(cfg.SeedDir, args[0])
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", filepath.Base(seedPath), err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, string(contents)); err != nil {
		return fmt.Errorf("apply seed %s: %w", filepath.Base(seedPath), err)
	}

	fmt.Printf("applied seed %s\n", filepath.Base(seedPath))
	return nil
}

// resolveSeedPath maps a seed name such as "dev" to <seedDir>/dev_seed.sql.
func resolveSeedPath(seedDir, name string) (string, error) {
	if !filepath.IsAbs(seedDir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		seedDir = filepath.Join(wd, seedDir)
	}

	if !strings.HasSuffix(name, ".sql") {
		name = fmt.Sprintf("%s_seed.sql", name)
	}
	return filepath.Join(seedDir, name), nil
}

func runUpload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: upload <file> <object-key>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.ObjectStore.Enabled() {
		return errors.New("MEDIA_BUCKET is required to upload media")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return err
	}

	location, err := store.Save(ctx, args[1], f)
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %s to %s\n", args[0], location)
	return nil
}
