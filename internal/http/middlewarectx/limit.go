package middlewarectx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/response"
)

// RateLimitMiddleware ограничивает число запросов с одного IP за окно window.
// Счётчики хранятся скользящим окном и удаляются по его истечении.
func RateLimitMiddleware(log *slog.Logger, limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("too many requests", slog.String("remote", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("too many requests"))
		}),
	)
}
