// Package entitlement предоставляет маршруты HTTP-сервиса прав.
package entitlement

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/entitlement-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/entitlement-service/internal/http/handlers/auth/register"
	entget "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/entitlement/get"
	entgrant "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/entitlement/grant"
	entme "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/entitlement/me"
	entrevoke "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/entitlement/revoke"
	entrole "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/entitlement/role"
	"github.com/magabrotheeeer/entitlement-service/internal/http/handlers/health"
	seslist "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/session/list"
	sesregister "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/session/register"
	sesremove "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/session/remove"
	sesremoveall "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/session/removeall"
	trstart "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/trial/start"
	trqapprove "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/trialrequest/approve"
	trqlist "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/trialrequest/list"
	trqreject "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/trialrequest/reject"
	trqsubmit "github.com/magabrotheeeer/entitlement-service/internal/http/handlers/trialrequest/submit"
	"github.com/magabrotheeeer/entitlement-service/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/entitlement-service/internal/services/auth"
	entservice "github.com/magabrotheeeer/entitlement-service/internal/services/entitlement"
	trservice "github.com/magabrotheeeer/entitlement-service/internal/services/trialrequest"
	"github.com/magabrotheeeer/entitlement-service/internal/storage/repository"
)

// dbChecker адаптирует хранилище к проверке готовности health-обработчика.
type dbChecker struct{ db *repository.Storage }

func (c dbChecker) CheckDatabaseReady(_ context.Context) error {
	return repository.CheckDatabaseReady(c.db)
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	entitlementService *entservice.EntitlementService,
	trialRequestService *trservice.TrialRequestService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, dbChecker{db}).ServeHTTP)

		// Self-service: права, пробный период и сессии текущего пользователя
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/me/entitlement", entme.New(logger, entitlementService).ServeHTTP)
			r.Post("/me/trial", trstart.New(logger, entitlementService).ServeHTTP)
			r.Get("/me/sessions", seslist.New(logger, entitlementService).ServeHTTP)
			r.Post("/me/sessions", sesregister.New(logger, entitlementService).ServeHTTP)
			r.Delete("/me/sessions/{deviceID}", sesremove.New(logger, entitlementService).ServeHTTP)
			r.Post("/me/trial-requests", trqsubmit.New(logger, trialRequestService).ServeHTTP)
		})

		// Административная консоль
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Get("/users/{uid}/entitlement", entget.New(logger, entitlementService).ServeHTTP)
			r.Post("/users/{uid}/premium", entgrant.New(logger, entitlementService).ServeHTTP)
			r.Delete("/users/{uid}/premium", entrevoke.New(logger, entitlementService).ServeHTTP)
			r.Post("/users/{uid}/role", entrole.New(logger, entitlementService).ServeHTTP)
			r.Get("/users/{uid}/sessions", seslist.New(logger, entitlementService).ServeHTTP)
			r.Delete("/users/{uid}/sessions", sesremoveall.New(logger, entitlementService).ServeHTTP)
			r.Get("/trial-requests", trqlist.New(logger, trialRequestService).ServeHTTP)
			r.Post("/trial-requests/{id}/approve", trqapprove.New(logger, trialRequestService).ServeHTTP)
			r.Post("/trial-requests/{id}/reject", trqreject.New(logger, trialRequestService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
