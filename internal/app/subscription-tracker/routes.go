// Package subscriptiontracker предоставляет маршруты для основного приложения.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/signin"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/signout"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/health"
	subcreate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	subread "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	subremove "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	subupcoming "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/upcoming"
	subupdate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	userlist "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	norm *response.Normalizer,
	jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	userService *userservice.UserService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(10, 30)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/sign-up", signup.New(logger, authService, norm).ServeHTTP)
		r.Post("/auth/sign-in", signin.New(logger, authService, norm).ServeHTTP)
		r.Post("/auth/sign-out", signout.New(logger, authService, norm).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, norm, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, norm, logger))

			r.Get("/users", userlist.New(logger, userService, norm).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, userService, norm).ServeHTTP)

			r.Post("/subscriptions", subcreate.New(logger, subscriptionService, norm).ServeHTTP)
			r.Get("/subscriptions/list", sublist.New(logger, subscriptionService, norm).ServeHTTP)
			r.Get("/subscriptions/upcoming-renewals", subupcoming.New(logger, subscriptionService, norm).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, subscriptionService, norm).ServeHTTP)
			r.Put("/subscriptions/{id}", subupdate.New(logger, subscriptionService, norm).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, subscriptionService, norm).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
