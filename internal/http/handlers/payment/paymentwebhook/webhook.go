// Package paymentwebhook принимает события платежного провайдера.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/paymentprovider"
)

// maxBodyBytes ограничивает размер тела webhook.
const maxBodyBytes = 64 << 10

// Service обрабатывает проверенное событие.
type Service interface {
	HandleEvent(ctx context.Context, event *paymentprovider.Event) error
}

// Handler проверяет подпись webhook и передаёт событие сервису.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Webhook платежного провайдера
// @Tags Payments
// @Accept  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 "Событие обработано"
// @Failure 400 "Некорректное тело"
// @Failure 401 "Неверная подпись"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get(paymentprovider.SignatureHeader)
	event, err := paymentprovider.ConstructEvent(body, signature, h.webhookSecret, paymentprovider.DefaultTolerance)
	if errors.Is(err, paymentprovider.ErrInvalidSignature) || errors.Is(err, paymentprovider.ErrSignatureExpired) {
		log.Warn("invalid webhook signature", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.HandleEvent(r.Context(), event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err), slog.String("event_id", event.ID))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed", slog.String("type", event.Type), slog.String("intent_id", event.Data.Object.ID))
	w.WriteHeader(http.StatusOK)
}
