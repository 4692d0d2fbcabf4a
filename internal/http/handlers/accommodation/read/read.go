// Package read реализует HTTP-обработчик получения размещения по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	accommodationservice "github.com/magabrotheeeer/carrydrop/internal/services/accommodation"
)

// Service описывает чтение размещения.
type Service interface {
	GetByID(ctx context.Context, id string) (*models.Accommodation, error)
}

// Handler обрабатывает запросы на получение размещения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить размещение
// @Tags Accommodations
// @Produce  json
// @Param id path string true "ID размещения"
// @Success 200 {object} models.Accommodation "Размещение"
// @Failure 404 {object} response.ErrorResponse "Не найдено"
// @Router /accommodations/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accommodation.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, accommodationservice.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("accommodation not found"))
			return
		}
		log.Error("failed to read accommodation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read accommodation"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"accommodation": item,
	}))
}
