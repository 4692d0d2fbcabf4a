// Package payment создаёт payment intent для бронирований и обрабатывает
// события оплаты от провайдера.
package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	"github.com/magabrotheeeer/carrydrop/internal/paymentprovider"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

// ErrNotPayable возвращается, если бронирование уже не в статусе PENDING.
var ErrNotPayable = errors.New("reservation is not awaiting payment")

// Reservations — операции жизненного цикла бронирований, нужные платежам.
type Reservations interface {
	GetByID(ctx context.Context, id string, requester models.Requester) (*models.Reservation, error)
	MarkPaid(ctx context.Context, id string) (*models.Reservation, error)
	AnnounceStatus(ctx context.Context, r *models.Reservation)
}

// Repository хранит платежи.
type Repository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, intentID, status string) (*models.Payment, error)
}

// Provider создаёт payment intent у провайдера.
type Provider interface {
	CreateIntent(ctx context.Context, req paymentprovider.CreateIntentRequest) (*paymentprovider.PaymentIntent, error)
}

// Service связывает бронирования с платежами провайдера.
type Service struct {
	reservations Reservations
	repo         Repository
	provider     Provider
	currency     string
	log          *slog.Logger
}

// New создаёт сервис платежей.
func New(reservations Reservations, repo Repository, provider Provider, currency string, log *slog.Logger) *Service {
	return &Service{
		reservations: reservations,
		repo:         repo,
		provider:     provider,
		currency:     currency,
		log:          log,
	}
}

// CreateIntent создаёт payment intent на цену бронирования.
// Доступ к бронированию проверяется так же, как при чтении.
func (s *Service) CreateIntent(ctx context.Context, reservationID string, requester models.Requester) (*models.PaymentIntentResponse, error) {
	r, err := s.reservations.GetByID(ctx, reservationID, requester)
	if err != nil {
		return nil, err
	}
	if r.Status != models.StatusPending {
		return nil, ErrNotPayable
	}

	intent, err := s.provider.CreateIntent(ctx, paymentprovider.CreateIntentRequest{
		Amount:        r.Price,
		Currency:      s.currency,
		ReservationID: r.ID,
	})
	if err != nil {
		return nil, err
	}

	status := intent.Status
	if status == "" {
		status = models.PaymentRequiresMethod
	}
	if _, err := s.repo.CreatePayment(ctx, models.Payment{
		ReservationID: r.ID,
		IntentID:      intent.ID,
		Amount:        r.Price,
		Currency:      s.currency,
		Status:        status,
	}); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	s.log.Info("payment intent created", slog.String("reservation_id", r.ID), slog.String("intent_id", intent.ID))
	return &models.PaymentIntentResponse{
		ClientSecret:  intent.ClientSecret,
		ReservationID: r.ID,
		Amount:        r.Price,
		Currency:      s.currency,
	}, nil
}

// HandleEvent применяет событие webhook. Неизвестные события и intent игнорируются.
// Кэш и событие о смене статуса бронирования публикуются только после фиксации транзакции.
func (s *Service) HandleEvent(ctx context.Context, event *paymentprovider.Event) error {
	var status string
	switch event.Type {
	case paymentprovider.EventIntentSucceeded:
		status = models.PaymentSucceeded
	case paymentprovider.EventIntentFailed:
		status = models.PaymentFailed
	case paymentprovider.EventIntentCanceled:
		status = models.PaymentCanceled
	default:
		s.log.Info("ignored webhook event", slog.String("type", event.Type))
		return nil
	}

	intentID := event.Data.Object.ID
	var paid *models.Reservation
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetPaymentByIntentID(ctx, intentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn("webhook for unknown payment intent", slog.String("intent_id", intentID))
				return nil
			}
			return err
		}
		if current.Status == models.PaymentSucceeded {
			s.log.Info("payment already settled", slog.String("intent_id", intentID))
			return nil
		}

		updated, err := s.repo.UpdatePaymentStatus(ctx, intentID, status)
		if err != nil {
			return err
		}
		if status != models.PaymentSucceeded {
			s.log.Info("payment not completed", slog.String("intent_id", intentID), slog.String("status", status))
			return nil
		}

		r, err := s.reservations.MarkPaid(ctx, updated.ReservationID)
		if err != nil {
			s.log.Error("failed to mark reservation paid", slog.String("reservation_id", updated.ReservationID), sl.Err(err))
			return err
		}
		paid = r
		return nil
	})
	if err != nil {
		return err
	}

	if paid != nil {
		s.log.Info("reservation paid", slog.String("reservation_id", paid.ID), slog.String("intent_id", intentID))
		s.reservations.AnnounceStatus(ctx, paid)
	}
	return nil
}
