// Package services содержит жизненный цикл бронирований доставки багажа:
// создание, чтение владельцем и смену статуса.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/carrydrop/internal/cache"
	"github.com/magabrotheeeer/carrydrop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/metrics"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrForbidden        = errors.New("reservation belongs to another user")
	ErrInvalidTimeRange = errors.New("drop-off time must be after pick-up time")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidStatus    = errors.New("unknown reservation status")
)

const cacheTTL = time.Hour

// Repository описывает хранилище пользователей и бронирований.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateReservation(ctx context.Context, r models.Reservation) (*models.Reservation, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservationsByUser(ctx context.Context, userUID string) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher отправляет доменные события в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// ReservationService реализует бизнес-логику бронирований с кэшированием.
type ReservationService struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewReservationService создает новый экземпляр ReservationService.
// publisher может быть nil, тогда события не отправляются.
func NewReservationService(repo Repository, cache Cache, publisher Publisher, log *slog.Logger) *ReservationService {
	return &ReservationService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Create создает бронирование в статусе PENDING для пользователя с email.
// Цена принимается от клиента как есть.
func (s *ReservationService) Create(ctx context.Context, email string, req models.DummyReservation) (*models.Reservation, error) {
	if !req.DropOffTime.After(req.PickUpTime) {
		return nil, ErrInvalidTimeRange
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	created, err := s.repo.CreateReservation(ctx, models.Reservation{
		UserUID:     user.UUID,
		FromPlace:   req.FromPlace,
		ToPlace:     req.ToPlace,
		PickUpTime:  req.PickUpTime,
		DropOffTime: req.DropOffTime,
		Price:       req.Price,
		Status:      models.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	created.UserEmail = user.Email
	created.UserName = user.Name

	metrics.ReservationsCreatedTotal.Inc()
	s.log.Info("created new reservation", slog.String("id", created.ID), slog.String("user_uid", user.UUID))
	s.cacheSet(ctx, created)

	return created, nil
}

// ListMine возвращает бронирования пользователя по убыванию времени забора.
func (s *ReservationService) ListMine(ctx context.Context, email string) ([]*models.Reservation, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.repo.ListReservationsByUser(ctx, user.UUID)
}

// GetByID возвращает бронирование владельцу или администратору.
func (s *ReservationService) GetByID(ctx context.Context, id string, requester models.Requester) (*models.Reservation, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && r.UserEmail != requester.Email {
		return nil, ErrForbidden
	}
	return r, nil
}

// IsOwner сообщает, принадлежит ли бронирование пользователю с email.
func (s *ReservationService) IsOwner(ctx context.Context, id, email string) (bool, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	return r.UserEmail == email, nil
}

// UpdateStatus выставляет любой допустимый статус без проверки перехода.
// Менять статус может администратор или владелец.
func (s *ReservationService) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, requester models.Requester) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !requester.IsAdmin {
		owner, err := s.IsOwner(ctx, id, requester.Email)
		if err != nil {
			return nil, err
		}
		if !owner {
			return nil, ErrForbidden
		}
	}
	return s.setStatus(ctx, id, status)
}

// MarkPaid переводит бронирование в PAID после подтверждённой оплаты.
// Вызывается внутри транзакции платежа, поэтому только сбрасывает кэш.
// После фиксации транзакции вызывающий передаёт результат в AnnounceStatus.
func (s *ReservationService) MarkPaid(ctx context.Context, id string) (*models.Reservation, error) {
	return s.writeStatus(ctx, id, models.StatusPaid)
}

// AnnounceStatus кэширует бронирование с новым статусом и отправляет событие.
func (s *ReservationService) AnnounceStatus(ctx context.Context, r *models.Reservation) {
	metrics.ReservationStatusChangesTotal.WithLabelValues(string(r.Status)).Inc()
	s.log.Info("reservation status changed", slog.String("id", r.ID), slog.String("status", string(r.Status)))
	s.cacheSet(ctx, r)
	s.publish(ctx, r)
}

func (s *ReservationService) setStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	updated, err := s.writeStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.AnnounceStatus(ctx, updated)
	return updated, nil
}

func (s *ReservationService) writeStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	key := cache.ReservationKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}

	updated, err := s.repo.UpdateReservationStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// load читает бронирование из кэша или хранилища.
func (s *ReservationService) load(ctx context.Context, id string) (*models.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	key := cache.ReservationKey(id)
	var cached models.Reservation
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cacheSet(ctx, r)
	return r, nil
}

func (s *ReservationService) cacheSet(ctx context.Context, r *models.Reservation) {
	key := cache.ReservationKey(r.ID)
	if err := s.cache.Set(ctx, key, r, cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *ReservationService) publish(ctx context.Context, r *models.Reservation) {
	if s.publisher == nil {
		return
	}
	event := models.StatusChangedEvent{
		ReservationID: r.ID,
		UserUID:       r.UserUID,
		Status:        r.Status,
		ChangedAt:     s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingStatusChanged, event); err != nil {
		s.log.Warn("failed to publish status change", slog.String("id", r.ID), sl.Err(err))
	}
}
