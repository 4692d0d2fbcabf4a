// Package services отдаёт справочник размещений партнёров.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/carrydrop/internal/cache"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

// ErrNotFound возвращается для неизвестного или некорректного идентификатора.
var ErrNotFound = errors.New("accommodation not found")

const cacheTTL = 10 * time.Minute

// Repository читает размещения из хранилища.
type Repository interface {
	ListAccommodations(ctx context.Context, activeOnly bool) ([]*models.Accommodation, error)
	GetAccommodation(ctx context.Context, id string) (*models.Accommodation, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// AccommodationService читает размещения с кэшированием списков.
type AccommodationService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewAccommodationService создает новый экземпляр AccommodationService.
func NewAccommodationService(repo Repository, cache Cache, log *slog.Logger) *AccommodationService {
	return &AccommodationService{repo: repo, cache: cache, log: log}
}

// ListActive возвращает размещения, принимающие доставки.
func (s *AccommodationService) ListActive(ctx context.Context) ([]*models.Accommodation, error) {
	return s.list(ctx, true)
}

// ListAll возвращает все размещения.
func (s *AccommodationService) ListAll(ctx context.Context) ([]*models.Accommodation, error) {
	return s.list(ctx, false)
}

// GetByID возвращает размещение по UUID.
func (s *AccommodationService) GetByID(ctx context.Context, id string) (*models.Accommodation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	a, err := s.repo.GetAccommodation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AccommodationService) list(ctx context.Context, activeOnly bool) ([]*models.Accommodation, error) {
	key := cache.AccommodationsKey(activeOnly)

	var cached []*models.Accommodation
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read accommodations from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListAccommodations(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, cacheTTL); err != nil {
		s.log.Warn("failed to cache accommodations", slog.String("key", key), sl.Err(err))
	}
	return items, nil
}
