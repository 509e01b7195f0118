// @title        Todo Render API
// @version      1.0
// @description  JSON surface of the todo renderer. Sessions are carried by the todo_session cookie.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/api"
	"github.com/99minutos/todo-render/internal/api/handler"
	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/core/service"
	mongostore "github.com/99minutos/todo-render/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/todo-render/internal/infrastructure/db/redis"
	"github.com/99minutos/todo-render/internal/infrastructure/tokenstore"
	"github.com/99minutos/todo-render/internal/infrastructure/upstream"
	"github.com/99minutos/todo-render/internal/pkg/config"
	"github.com/99minutos/todo-render/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todo-render",
	})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("failed to read .env")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	repo, closeRepo, err := openSessionRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	client := upstream.NewClient(upstream.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger.With("upstream"))

	tokens := func(id string) ports.TokenStore { return tokenstore.NewScoped(repo, id) }
	sessions := service.NewSessionService(client, repo, tokens, logger.With("sessions"))
	todos := service.NewTodoService(client, logger.With("todos"))

	e, err := api.NewRouter(api.Dependencies{
		Sessions: sessions,
		Todos:    todos,
		Cookie: &middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		GoogleClientID: cfg.Google.ClientID,
		Ready:          map[string]handler.Pinger{"sessions": repo},
		Log:            logger.With("http"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("api", cfg.API.BaseURL).
			Str("session_store", cfg.Session.Store).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// openSessionRepository connects the backend selected by SESSION_STORE.
// The returned func releases its connection.
func openSessionRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionRepository, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store connected")

		closeFn := func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}
		return redisstore.NewSessionRepository(rdb, cfg.Session.TTL), closeFn, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "todo-render",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo session store connected")

		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}

		repo := mongostore.NewSessionRepository(db, cfg.Session.TTL)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure session indexes: %w", err)
		}
		return repo, closeFn, nil

	default:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		return tokenstore.NewMemoryRepository(cfg.Session.TTL), func() {}, nil
	}
}
