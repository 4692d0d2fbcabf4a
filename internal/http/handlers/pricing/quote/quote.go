// Package quote реализует HTTP-обработчик ориентировочной стоимости доставки.
package quote

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/config"
	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/pricing"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
)

// Handler считает цену по тарифу и количеству мест.
type Handler struct {
	log *slog.Logger
	cfg config.Pricing
}

// New создает новый Handler.
func New(log *slog.Logger, cfg config.Pricing) *Handler {
	return &Handler{log: log, cfg: cfg}
}

// ServeHTTP godoc
// @Summary Ориентировочная цена
// @Tags Pricing
// @Produce  json
// @Param service_type query string true "STANDARD, EXPRESS или PREMIUM"
// @Param items query int false "Количество мест багажа" default(1)
// @Success 200 {object} map[string]any "Цена"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Router /pricing/quote [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pricing.quote"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	tier := pricing.ServiceType(strings.ToUpper(q.Get("service_type")))

	items := 1
	if raw := q.Get("items"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("failed to parse items", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("items must be an integer"))
			return
		}
		items = n
	}

	price, err := pricing.Quote(h.cfg.BaseRate, items, tier, pricing.Band{Min: h.cfg.MinPrice, Max: h.cfg.MaxPrice})
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownServiceType):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown service type"))
		case errors.Is(err, pricing.ErrInvalidItemCount):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("items must be at least 1"))
		default:
			log.Error("failed to quote price", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not quote price"))
		}
		return
	}

	multiplier, _ := pricing.Multiplier(tier)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"service_type": tier,
		"items":        items,
		"multiplier":   multiplier,
		"price":        price,
	}))
}
