package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kinboard-api/internal/application/assistant"
	"github.com/kinboard-api/internal/application/event"
	"github.com/kinboard-api/internal/application/vault"
	"github.com/kinboard-api/internal/config"
	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/transport/http/handler"
	appmiddleware "github.com/kinboard-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to PIN endpoints so online
	// guessing is throttled before the lockout tracker ever sees it.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	tracker := vault.NewLockoutTracker(deps.LockoutRepo, cfg.MaxPinAttempts, time.Duration(cfg.LockoutMinutes)*time.Minute)
	secretSvc := vault.NewSecretService(deps.SecretStore)
	pinSvc := vault.NewPinManager(deps.SecretStore, tracker)
	accessSvc := vault.NewAccessController(deps.SecretStore, tracker)
	eventSvc := event.NewService(deps.EventRepo, deps.S3Store, deps.Mailer, deps.SMSSender)
	assistantSvc := assistant.NewService(deps.LLM, eventSvc)

	healthH := handler.NewHealthHandler()
	vaultH := handler.NewVaultHandler(secretSvc, pinSvc, accessSvc)
	eventH := handler.NewEventHandler(eventSvc)
	weatherH := handler.NewWeatherHandler(deps.Weather)
	trafficH := handler.NewTrafficHandler(deps.Routing)
	assistantH := handler.NewAssistantHandler(assistantSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/events", eventH.List)
			r.Post("/events", eventH.Create)
			r.Get("/events/{id}", eventH.Get)
			r.Put("/events/{id}", eventH.Update)
			r.Delete("/events/{id}", eventH.Delete)
			r.Post("/events/{id}/attachment", eventH.Attach)
			r.Get("/events/{id}/attachment", eventH.Attachment)

			r.Get("/weather", weatherH.Forecast)
			r.Get("/traffic/route", trafficH.Route)
			r.Post("/assistant/chat", assistantH.Chat)

			// Vault routes are for parents only; children never see secrets.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleParent))

				r.Get("/vault/secrets", vaultH.ListSecrets)
				r.Post("/vault/secrets", vaultH.SaveSecret)
				r.Delete("/vault/secrets/{category}/{key}", vaultH.DeleteSecret)
				r.Get("/vault/pin", vaultH.PinStatus)
				r.With(sensitiveRL.Limit).Put("/vault/pin", vaultH.SetPin)
				r.With(sensitiveRL.Limit).Post("/vault/pin/verify", vaultH.VerifyPin)
				r.With(sensitiveRL.Limit).Post("/vault/secrets/reveal", vaultH.RevealSecret)
			})
		})
	})

	return r
}
