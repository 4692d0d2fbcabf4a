package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

const reservationSelect = `SELECT r.id, r.user_id, u.email, u.name, r.from_place, r.to_place,
		r.pick_up_time, r.drop_off_time, r.price, r.status, r.created_at, r.updated_at
	FROM reservations r
	JOIN users u ON u.id = r.user_id`

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	if err := row.Scan(&r.ID, &r.UserUID, &r.UserEmail, &r.UserName, &r.FromPlace, &r.ToPlace,
		&r.PickUpTime, &r.DropOffTime, &r.Price, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReservation сохраняет бронирование и возвращает его вместе с присвоенными id и временными метками.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (*models.Reservation, error) {
	const op = "storage.CreateReservation"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	status := r.Status
	if status == "" {
		status = models.StatusPending
	}
	query := `INSERT INTO reservations (user_id, from_place, to_place, pick_up_time, drop_off_time, price, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`
	created := r
	created.Status = status
	if err := s.q(ctx).QueryRowContext(ctx, query,
		r.UserUID, r.FromPlace, r.ToPlace, r.PickUpTime, r.DropOffTime, r.Price, status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &created, nil
}

// GetReservation возвращает бронирование вместе с email и именем владельца.
func (s *Storage) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "storage.GetReservation"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	r, err := scanReservation(s.q(ctx).QueryRowContext(ctx, reservationSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListReservationsByUser возвращает бронирования пользователя, начиная с самого позднего забора.
func (s *Storage) ListReservationsByUser(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	const op = "storage.ListReservationsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.q(ctx).QueryContext(ctx,
		reservationSelect+` WHERE r.user_id = $1 ORDER BY r.pick_up_time DESC, r.id`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReservationStatus выставляет статус без проверки перехода и обновляет updated_at.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	const op = "storage.UpdateReservationStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH updated AS (
			      UPDATE reservations SET status = $1, updated_at = now()
			      WHERE id = $2
			      RETURNING *
			  )
			  SELECT r.id, r.user_id, u.email, u.name, r.from_place, r.to_place,
			         r.pick_up_time, r.drop_off_time, r.price, r.status, r.created_at, r.updated_at
			  FROM updated r
			  JOIN users u ON u.id = r.user_id`
	r, err := scanReservation(s.q(ctx).QueryRowContext(ctx, query, status, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}
