// Package subscriptiontracker собирает приложение: хранилище, миграции,
// кеш, публикацию событий, сервисы и HTTP-сервер с graceful shutdown.
package subscriptiontracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// shutdownTimeout время на graceful shutdown HTTP-сервера.
const shutdownTimeout = 15 * time.Second

// App держит собранное приложение и его ресурсы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	events *rabbitmq.Publisher
}

// New собирает приложение из конфига: подключает базу и применяет миграции,
// поднимает кеш и публикацию событий, создает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Публикация событий опциональна: без rabbit_url сервис работает как обычно.
	var events *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		events, err = rabbitmq.New(cfg.RabbitURL, rabbitmq.EventsExchange)
		if err != nil {
			return nil, err
		}
	}
	var authEvents authservice.Publisher
	var subEvents subservice.Publisher
	if events != nil {
		authEvents = events
		subEvents = events
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	norm := response.NewNormalizer(cfg.Env)

	authService := authservice.NewAuthService(db, jwtMaker, authEvents)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, subEvents, logger)
	userService := userservice.NewUserService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, norm, jwtMaker, authService, subscriptionService, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		events: events,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
// Ресурсы приложения освобождаются на любом пути выхода.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("failed to close events publisher", sl.Err(err))
		}
	}
}
