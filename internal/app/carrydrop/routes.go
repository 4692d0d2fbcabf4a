// Package carrydrop собирает HTTP API сервиса доставки багажа.
package carrydrop

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/carrydrop/internal/config"
	accommodationlist "github.com/magabrotheeeer/carrydrop/internal/http/handlers/accommodation/list"
	accommodationread "github.com/magabrotheeeer/carrydrop/internal/http/handlers/accommodation/read"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/health"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/pricing/quote"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/reservation/create"
	reservationlist "github.com/magabrotheeeer/carrydrop/internal/http/handlers/reservation/list"
	reservationread "github.com/magabrotheeeer/carrydrop/internal/http/handlers/reservation/read"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/reservation/updatestatus"
	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	accommodationservice "github.com/magabrotheeeer/carrydrop/internal/services/accommodation"
	authservice "github.com/magabrotheeeer/carrydrop/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/carrydrop/internal/services/payment"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
)

// Services — зависимости обработчиков.
type Services struct {
	Auth          *authservice.AuthService
	Reservation   *reservationservice.ReservationService
	Accommodation *accommodationservice.AccommodationService
	Payment       *paymentservice.Service
	Health        map[string]health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateWindow))
			r.Post("/signup", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		})
		r.Get("/pricing/quote", quote.New(logger, cfg.Pricing).ServeHTTP)
		r.Get("/accommodations", accommodationlist.New(logger, svc.Accommodation).ServeHTTP)
		r.Get("/accommodations/active", accommodationlist.NewActive(logger, svc.Accommodation).ServeHTTP)
		r.Get("/accommodations/{id}", accommodationread.New(logger, svc.Accommodation).ServeHTTP)
		r.Get("/health", health.New(logger, svc.Health).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateWindow))
			r.Post("/reservations", create.New(logger, svc.Reservation).ServeHTTP)
			r.Get("/reservations/me", reservationlist.New(logger, svc.Reservation).ServeHTTP)
			r.Get("/reservations/{id}", reservationread.New(logger, svc.Reservation).ServeHTTP)
			r.Patch("/reservations/{id}/status", updatestatus.New(logger, svc.Reservation).ServeHTTP)
			r.Post("/payments/create-intent", paymentcreate.New(logger, svc.Payment).ServeHTTP)
		})

		// Webhook проверяется подписью, а не JWT
		r.Post("/payments/webhook", paymentwebhook.New(logger, svc.Payment, cfg.Payment.WebhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
