// Package pricing считает ориентировочную стоимость доставки багажа.
// Цена носит справочный характер: при создании бронирования сервер принимает цену клиента.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ServiceType — тариф доставки.
type ServiceType string

const (
	Standard ServiceType = "STANDARD"
	Express  ServiceType = "EXPRESS"
	Premium  ServiceType = "PREMIUM"
)

var (
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrInvalidItemCount   = errors.New("item count must be at least 1")
	ErrInvalidBand        = errors.New("invalid price band")
)

// multipliers хранятся в десятых долях, чтобы floor не зависел от погрешности float.
var multipliers = map[ServiceType]int{
	Standard: 10,
	Express:  15,
	Premium:  22,
}

// Band — диапазон, в который зажимается итоговая цена.
type Band struct {
	Min int
	Max int
}

// Multiplier возвращает множитель тарифа.
func Multiplier(tier ServiceType) (float64, bool) {
	m, ok := multipliers[tier]
	return float64(m) / 10, ok
}

// Quote возвращает floor(base × itemCount × multiplier), зажатый в band.
func Quote(base, itemCount int, tier ServiceType, band Band) (int, error) {
	const op = "pricing.Quote"
	m, ok := multipliers[tier]
	if !ok {
		return 0, fmt.Errorf("%s: %w: %q", op, ErrUnknownServiceType, tier)
	}
	if itemCount < 1 {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidItemCount)
	}
	if band.Min > band.Max {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidBand)
	}

	raw := int64(base) * int64(itemCount) * int64(m) / 10
	if raw > math.MaxInt32 {
		raw = math.MaxInt32
	}
	return clamp(int(raw), band.Min, band.Max), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
