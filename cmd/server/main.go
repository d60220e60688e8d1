package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vedran77/jobly/internal/auth"
	"github.com/vedran77/jobly/internal/config"
	"github.com/vedran77/jobly/internal/database"
	"github.com/vedran77/jobly/internal/repository"
	"github.com/vedran77/jobly/internal/repository/memory"
	postgresrepo "github.com/vedran77/jobly/internal/repository/postgres"
	"github.com/vedran77/jobly/internal/service"
	"github.com/vedran77/jobly/internal/transport/http/handlers"
	"github.com/vedran77/jobly/internal/transport/ws"
)

const shutdownTimeout = 10 * time.Second

type repos struct {
	users        repository.UserRepository
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	listings     repository.ListingRepository
}

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Repositories
	r, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Services
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(r.users, tokens, logger)
	userService := service.NewUserService(r.users, r.applications, tokens, logger)
	jobService := service.NewJobService(r.jobs, logger)
	listingService := service.NewListingService(r.listings, logger)

	// WebSocket hub
	hub := ws.NewHub(logger)
	go hub.Run(ctx)
	userService.SetNotifier(ws.NewHubNotifier(hub))

	router := handlers.NewRouter(handlers.Deps{
		Auth:        authService,
		Users:       userService,
		Jobs:        jobService,
		Listings:    listingService,
		Verifier:    tokens,
		Events:      ws.ServeWS(hub, tokens, cfg.CORSOrigins),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}
	logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store)
	return serve(ctx, srv, ln, logger)
}

// serve runs srv on ln until ctx is cancelled, then lets in-flight requests
// finish before returning. Request contexts are not derived from ctx.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repos, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return repos{
			users:        store.Users(),
			jobs:         store.Jobs(),
			applications: store.Applications(),
			listings:     store.Listings(),
		}, func() {}, nil

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return repos{}, nil, err
		}
		logger.Info("connected to database")

		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, pool); err != nil {
				pool.Close()
				return repos{}, nil, err
			}
			logger.Info("schema migrated")
		}

		return repos{
			users:        postgresrepo.NewUserRepo(pool),
			jobs:         postgresrepo.NewJobRepo(pool),
			applications: postgresrepo.NewApplicationRepo(pool),
			listings:     postgresrepo.NewListingRepo(pool),
		}, pool.Close, nil

	default:
		return repos{}, nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}
}
