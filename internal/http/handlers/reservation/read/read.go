// Package read реализует HTTP-обработчик получения бронирования по ID.
//
// Бронирование видит только его владелец или администратор.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
)

// Handler обрабатывает запросы на получение бронирования.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения бронирования.
type Service interface {
	GetByID(ctx context.Context, id string, requester models.Requester) (*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить бронирование
// @Tags Reservations
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Success 200 {object} models.ReservationResponse "Бронирование"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Не найдено"
// @Router /reservations/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.read"

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

	id := chi.URLParam(r, "id")
	res, err := h.service.GetByID(r.Context(), id, requester)
	switch {
	case errors.Is(err, reservationservice.ErrNotFound):
		log.Warn("reservation not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("reservation not found"))
		return
	case errors.Is(err, reservationservice.ErrForbidden):
		log.Warn("access denied", slog.String("id", id), slog.String("email", requester.Email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	case err != nil:
		log.Error("failed to read reservation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read reservation"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservation": models.NewReservationResponse(res),
	}))
}
