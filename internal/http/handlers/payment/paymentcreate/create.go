// Package paymentcreate обрабатывает создание payment intent для бронирования.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	"github.com/magabrotheeeer/carrydrop/internal/paymentprovider"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
	paymentservice "github.com/magabrotheeeer/carrydrop/internal/services/payment"
)

// Request представляет запрос на создание payment intent.
type Request struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid"`
}

// Service определяет интерфейс для работы с платежами.
type Service interface {
	CreateIntent(ctx context.Context, reservationID string, requester models.Requester) (*models.PaymentIntentResponse, error)
}

// Handler обрабатывает запросы на создание платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платеж
// @Description Создает payment intent на цену бронирования в статусе PENDING
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Бронирование для оплаты"
// @Success 200 {object} models.PaymentIntentResponse "Payment intent создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Бронирование уже оплачено"
// @Failure 502 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Router /payments/create-intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requester, ok := middlewarectx.RequesterFromContext(r.Context())
	if !ok {
		log.Error("requester missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), req.ReservationID, requester)
	if err != nil {
		var apiErr *paymentprovider.APIError
		switch {
		case errors.Is(err, reservationservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reservation not found"))
		case errors.Is(err, reservationservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		case errors.Is(err, paymentservice.ErrNotPayable):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("reservation is not awaiting payment"))
		case errors.As(err, &apiErr):
			log.Error("payment provider rejected request", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider error"))
		default:
			log.Error("failed to create payment intent", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create payment"))
		}
		return
	}

	log.Info("payment intent created", slog.String("reservation_id", intent.ReservationID))
	render.JSON(w, r, response.StatusOKWithData(intent))
}
