// Package list реализует HTTP-обработчик списка бронирований текущего пользователя.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
)

// Handler отдаёт бронирования вызывающего.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение бронирований пользователя.
type Service interface {
	ListMine(ctx context.Context, email string) ([]*models.Reservation, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мои бронирования
// @Tags Reservations
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.ReservationResponse "Бронирования по убыванию времени забора"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /reservations/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.list"

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

	res, err := h.service.ListMine(r.Context(), requester.Email)
	if err != nil {
		if errors.Is(err, reservationservice.ErrUserNotFound) {
			log.Warn("user not found", slog.String("email", requester.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reservations"))
		return
	}

	out := make([]models.ReservationResponse, 0, len(res))
	for _, item := range res {
		out = append(out, models.NewReservationResponse(item))
	}

	log.Info("listed reservations", slog.Int("count", len(out)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservations": out,
	}))
}
