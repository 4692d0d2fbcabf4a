package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

const paymentColumns = `id, reservation_id, intent_id, amount, currency, status, created_at, updated_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.ReservationID, &p.IntentID, &p.Amount, &p.Currency,
		&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment сохраняет созданный у провайдера payment intent.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO payments (reservation_id, intent_id, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + paymentColumns
	created, err := scanPayment(s.q(ctx).QueryRowContext(ctx, query,
		p.ReservationID, p.IntentID, p.Amount, p.Currency, p.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetPaymentByIntentID возвращает платёж по идентификатору intent у провайдера.
func (s *Storage) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByIntentID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPayment(s.q(ctx).QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE intent_id = $1`, intentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// UpdatePaymentStatus обновляет статус платежа и возвращает его.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, intentID, status string) (*models.Payment, error) {
	const op = "storage.UpdatePaymentStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE payments SET status = $1, updated_at = now()
			  WHERE intent_id = $2
			  RETURNING ` + paymentColumns
	p, err := scanPayment(s.q(ctx).QueryRowContext(ctx, query, status, intentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}
