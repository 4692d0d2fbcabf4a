// Package middlewarectx содержит HTTP middleware: проверку JWT,
// ограничение частоты запросов и учёт метрик.
//
// JWTMiddleware проверяет токен из заголовка Authorization и кладёт
// идентичность вызывающего в контекст запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/carrydrop/internal/http/response"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// RequesterKey — ключ для models.Requester в контексте.
const RequesterKey Key = "requester"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(token string) (models.Requester, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
// При ошибке отвечает 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			requester, err := authService.ValidateToken(tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), RequesterKey, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequesterFromContext достаёт идентичность вызывающего, положенную JWTMiddleware.
func RequesterFromContext(ctx context.Context) (models.Requester, bool) {
	requester, ok := ctx.Value(RequesterKey).(models.Requester)
	if !ok || requester.Email == "" {
		return models.Requester{}, false
	}
	return requester, true
}

// WithRequester кладёт идентичность в контекст.
func WithRequester(ctx context.Context, requester models.Requester) context.Context {
	return context.WithValue(ctx, RequesterKey, requester)
}
