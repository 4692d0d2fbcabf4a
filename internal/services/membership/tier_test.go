package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

var fixedNow = time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)

func paidAt(pickUp time.Time) *models.Reservation {
	return &models.Reservation{Status: models.StatusPaid, PickUpTime: pickUp}
}

func paidWithin(n int, now time.Time) []*models.Reservation {
	out := make([]*models.Reservation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, paidAt(now.AddDate(0, 0, -(i%180)-1)))
	}
	return out
}

func TestTargetRole_Boundaries(t *testing.T) {
	tests := []struct {
		n    int
		want models.MemberRole
	}{
		{0, models.RoleBronze},
		{2, models.RoleBronze},
		{3, models.RoleSilver},
		{9, models.RoleSilver},
		{10, models.RoleGold},
		{57, models.RoleGold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TargetRole(tt.n), "n=%d", tt.n)
	}
}

func TestCountQualifying_Window(t *testing.T) {
	tests := []struct {
		name string
		r    *models.Reservation
		want int
	}{
		{name: "364 days ago is included", r: paidAt(fixedNow.AddDate(0, 0, -364)), want: 1},
		{name: "366 days ago is excluded", r: paidAt(fixedNow.AddDate(0, 0, -366)), want: 0},
		{name: "exactly on cutoff is excluded", r: paidAt(fixedNow.AddDate(0, 0, -365)), want: 0},
		{name: "future pickup counts", r: paidAt(fixedNow.Add(48 * time.Hour)), want: 1},
		{
			name: "pending is ignored",
			r:    &models.Reservation{Status: models.StatusPending, PickUpTime: fixedNow.AddDate(0, 0, -1)},
			want: 0,
		},
		{
			name: "delivered is ignored",
			r:    &models.Reservation{Status: models.StatusDelivered, PickUpTime: fixedNow.AddDate(0, 0, -1)},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountQualifying([]*models.Reservation{tt.r}, fixedNow))
		})
	}
}

func TestPlan(t *testing.T) {
	snapshots := []UserSnapshot{
		{
			User:         &models.User{UUID: "u-gold", Email: "gold@example.com", Role: models.RoleBronze},
			Reservations: paidWithin(10, fixedNow),
		},
		{
			User:         &models.User{UUID: "u-same", Email: "same@example.com", Role: models.RoleSilver},
			Reservations: paidWithin(3, fixedNow),
		},
		{
			User:         &models.User{UUID: "u-demote", Email: "demote@example.com", Role: models.RoleGold},
			Reservations: paidWithin(2, fixedNow),
		},
		{
			User:         &models.User{UUID: "u-red", Email: "red@example.com", Role: models.RoleRed},
			Reservations: paidWithin(0, fixedNow),
		},
	}

	changes := Plan(snapshots, fixedNow)

	assert.Equal(t, []models.RoleChange{
		{UserUID: "u-gold", Email: "gold@example.com", From: models.RoleBronze, To: models.RoleGold, PaidLastYear: 10},
		{UserUID: "u-demote", Email: "demote@example.com", From: models.RoleGold, To: models.RoleBronze, PaidLastYear: 2},
	}, changes)
}

func TestPlan_RedNeverChanges(t *testing.T) {
	for _, n := range []int{0, 3, 10, 25} {
		changes := Plan([]UserSnapshot{{
			User:         &models.User{UUID: "u-red", Role: models.RoleRed},
			Reservations: paidWithin(n, fixedNow),
		}}, fixedNow)
		assert.Empty(t, changes, "n=%d", n)
	}
}
