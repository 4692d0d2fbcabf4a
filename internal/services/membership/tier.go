package services

import (
	"time"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

// Пороги оплаченных бронирований за последний год.
const (
	SilverThreshold = 3
	GoldThreshold   = 10
	windowDays      = 365
)

// UserSnapshot — пользователь и его бронирования на момент пересчёта.
type UserSnapshot struct {
	User         *models.User
	Reservations []*models.Reservation
}

// TargetRole возвращает уровень для n оплаченных бронирований за год.
func TargetRole(n int) models.MemberRole {
	switch {
	case n >= GoldThreshold:
		return models.RoleGold
	case n >= SilverThreshold:
		return models.RoleSilver
	default:
		return models.RoleBronze
	}
}

// CountQualifying считает бронирования в статусе PAID, у которых время забора
// строго позже now минус 365 дней.
func CountQualifying(reservations []*models.Reservation, now time.Time) int {
	cutoff := now.AddDate(0, 0, -windowDays)
	n := 0
	for _, r := range reservations {
		if r.Status == models.StatusPaid && r.PickUpTime.After(cutoff) {
			n++
		}
	}
	return n
}

// Plan вычисляет изменения уровней. RED не пересчитывается.
// Порядок изменений совпадает с порядком snapshots.
func Plan(snapshots []UserSnapshot, now time.Time) []models.RoleChange {
	var changes []models.RoleChange
	for _, s := range snapshots {
		if s.User.Role == models.RoleRed {
			continue
		}
		n := CountQualifying(s.Reservations, now)
		target := TargetRole(n)
		if target == s.User.Role {
			continue
		}
		changes = append(changes, models.RoleChange{
			UserUID:      s.User.UUID,
			Email:        s.User.Email,
			From:         s.User.Role,
			To:           target,
			PaidLastYear: n,
		})
	}
	return changes
}
