// Package services пересчитывает уровни членства пользователей по оплаченным
// бронированиям за последний год и запускает пересчёт по расписанию.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/carrydrop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/metrics"
	"github.com/magabrotheeeer/carrydrop/internal/models"
)

// Repository описывает хранилище, нужное для пересчёта.
// Методы, вызванные с контекстом из RunInTx, выполняются в одной транзакции.
type Repository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListReservationsByUser(ctx context.Context, userUID string) ([]*models.Reservation, error)
	UpdateUserRole(ctx context.Context, userUID string, role models.MemberRole) error
}

// Publisher отправляет доменные события в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// MembershipService пересчитывает уровни членства.
type MembershipService struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewMembershipService создает новый экземпляр MembershipService.
// publisher может быть nil.
func NewMembershipService(repo Repository, publisher Publisher, log *slog.Logger) *MembershipService {
	return &MembershipService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// RecomputeAllMembershipTiers пересчитывает уровни всех пользователей в одной транзакции.
// Любая ошибка откатывает все изменения запуска.
func (s *MembershipService) RecomputeAllMembershipTiers(ctx context.Context) error {
	started := s.now()
	s.log.Info("membership recalculation started")

	var changes []models.RoleChange
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		snapshots, err := s.snapshot(ctx)
		if err != nil {
			return err
		}
		changes = Plan(snapshots, started)
		for _, c := range changes {
			if err := s.repo.UpdateUserRole(ctx, c.UserUID, c.To); err != nil {
				return err
			}
			s.log.Info("membership role changed",
				slog.String("email", c.Email),
				slog.String("from", string(c.From)),
				slog.String("to", string(c.To)),
				slog.Int("paid_last_year", c.PaidLastYear),
			)
		}
		return nil
	})
	metrics.ObserveMembershipRun(err, started)
	if err != nil {
		s.log.Error("membership recalculation failed, changes rolled back", sl.Err(err))
		return err
	}

	metrics.ObserveRoleChanges(changes)
	s.publish(ctx, changes)
	s.log.Info("membership recalculation finished",
		slog.Int("changed", len(changes)),
		slog.Duration("took", s.now().Sub(started)),
	)
	return nil
}

func (s *MembershipService) snapshot(ctx context.Context) ([]UserSnapshot, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]UserSnapshot, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleRed {
			continue
		}
		reservations, err := s.repo.ListReservationsByUser(ctx, u.UUID)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, UserSnapshot{User: u, Reservations: reservations})
	}
	return snapshots, nil
}

func (s *MembershipService) publish(ctx context.Context, changes []models.RoleChange) {
	if s.publisher == nil {
		return
	}
	for _, c := range changes {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingRoleChanged, c); err != nil {
			s.log.Warn("failed to publish role change", slog.String("email", c.Email), sl.Err(err))
		}
	}
}
