package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

const accommodationColumns = `id, name, address, detail_address, access_instructions, latitude, longitude,
	delivery_start_time, delivery_end_time, delivery_fee, is_active, notes, created_at, updated_at`

func scanAccommodation(row rowScanner) (*models.Accommodation, error) {
	var a models.Accommodation
	if err := row.Scan(&a.ID, &a.Name, &a.Address, &a.DetailAddress, &a.AccessInstructions,
		&a.Latitude, &a.Longitude, &a.DeliveryStartTime, &a.DeliveryEndTime, &a.DeliveryFee,
		&a.IsActive, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAccommodations возвращает размещения по имени; activeOnly оставляет только действующие.
func (s *Storage) ListAccommodations(ctx context.Context, activeOnly bool) ([]*models.Accommodation, error) {
	const op = "storage.ListAccommodations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + accommodationColumns + ` FROM accommodations`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetAccommodation возвращает размещение по id.
func (s *Storage) GetAccommodation(ctx context.Context, id string) (*models.Accommodation, error) {
	const op = "storage.GetAccommodation"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	a, err := scanAccommodation(s.q(ctx).QueryRowContext(ctx,
		`SELECT `+accommodationColumns+` FROM accommodations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}
