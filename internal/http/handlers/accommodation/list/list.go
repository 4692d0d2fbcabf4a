// Package list реализует HTTP-обработчики списков размещений партнёров.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
)

// Service описывает чтение размещений.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Accommodation, error)
	ListActive(ctx context.Context) ([]*models.Accommodation, error)
}

// Handler отдаёт список размещений. При activeOnly только принимающие доставки.
type Handler struct {
	log        *slog.Logger
	service    Service
	activeOnly bool
}

// New создает обработчик полного списка.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// NewActive создает обработчик списка активных размещений.
func NewActive(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, activeOnly: true}
}

// ServeHTTP godoc
// @Summary Список размещений
// @Tags Accommodations
// @Produce  json
// @Success 200 {array} models.Accommodation "Размещения"
// @Router /accommodations [get]
// @Router /accommodations/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accommodation.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var (
		items []*models.Accommodation
		err   error
	)
	if h.activeOnly {
		items, err = h.service.ListActive(r.Context())
	} else {
		items, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		log.Error("failed to list accommodations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list accommodations"))
		return
	}
	if items == nil {
		items = []*models.Accommodation{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"accommodations": items,
	}))
}
