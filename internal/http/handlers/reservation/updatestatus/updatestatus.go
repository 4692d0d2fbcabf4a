// Package updatestatus реализует HTTP-обработчик смены статуса бронирования.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
)

// Handler обрабатывает запросы на смену статуса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает смену статуса бронирования.
type Service interface {
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, requester models.Requester) (*models.Reservation, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить статус бронирования
// @Tags Reservations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Param request body models.DummyStatus true "Новый статус"
// @Success 200 {object} models.ReservationResponse "Обновлённое бронирование"
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Не найдено"
// @Router /reservations/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.updatestatus"

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

	var req models.DummyStatus
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

	id := chi.URLParam(r, "id")
	res, err := h.service.UpdateStatus(r.Context(), id, req.Status, requester)
	switch {
	case errors.Is(err, reservationservice.ErrInvalidStatus):
		log.Warn("unknown status", slog.String("status", string(req.Status)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown reservation status"))
		return
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
		log.Error("failed to update reservation status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update reservation status"))
		return
	}

	log.Info("reservation status updated", slog.String("id", id), slog.String("status", string(res.Status)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservation": models.NewReservationResponse(res),
	}))
}
