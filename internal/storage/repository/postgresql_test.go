package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	name := "Aiko"
	hash := "hash"
	uid, err := storage.CreateUser(ctx, models.User{Email: "aiko@example.com", Name: &name, PasswordHash: &hash})
	require.NoError(t, err)

	t.Run("get by email", func(t *testing.T) {
		u, err := storage.GetUserByEmail(ctx, "aiko@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, u.UUID)
		assert.Equal(t, models.RoleBronze, u.Role)
		require.NotNil(t, u.Name)
		assert.Equal(t, "Aiko", *u.Name)
		assert.False(t, u.IsAdmin)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{Email: "aiko@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed uuid is not found", func(t *testing.T) {
		_, err := storage.GetUser(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update role", func(t *testing.T) {
		require.NoError(t, storage.UpdateUserRole(ctx, uid, models.RoleGold))
		u, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, models.RoleGold, u.Role)

		err = storage.UpdateUserRole(ctx, uuid.NewString(), models.RoleGold)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list users", func(t *testing.T) {
		users, err := storage.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestStorage_Reservations(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	factory := NewTestDataFactory(t, storage)

	uid := factory.CreateUser("traveler@example.com", models.RoleBronze)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older := factory.CreateReservation(uid, base, "")
	newer := factory.CreateReservation(uid, base.Add(48*time.Hour), models.StatusPaid)

	assert.Equal(t, models.StatusPending, older.Status)
	assert.NotEmpty(t, older.ID)
	assert.False(t, older.CreatedAt.IsZero())

	t.Run("get joins owner", func(t *testing.T) {
		got, err := storage.GetReservation(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "traveler@example.com", got.UserEmail)
		assert.Equal(t, uid, got.UserUID)
		assert.True(t, base.Equal(got.PickUpTime))
	})

	t.Run("list ordered by pickup desc", func(t *testing.T) {
		list, err := storage.ListReservationsByUser(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
	})

	t.Run("update status refreshes updated_at", func(t *testing.T) {
		updated, err := storage.UpdateReservationStatus(ctx, older.ID, models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)
		assert.True(t, !updated.UpdatedAt.Before(older.UpdatedAt))
		assert.Equal(t, "traveler@example.com", updated.UserEmail)
	})

	t.Run("missing reservation", func(t *testing.T) {
		_, err := storage.GetReservation(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = storage.UpdateReservationStatus(ctx, uuid.NewString(), models.StatusPaid)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_RunInTx(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	factory := NewTestDataFactory(t, storage)

	first := factory.CreateUser("first@example.com", models.RoleBronze)
	second := factory.CreateUser("second@example.com", models.RoleBronze)

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := storage.RunInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, storage.UpdateUserRole(ctx, first, models.RoleSilver))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		u, err := storage.GetUser(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, models.RoleBronze, u.Role)
	})

	t.Run("commit applies all", func(t *testing.T) {
		err := storage.RunInTx(ctx, func(ctx context.Context) error {
			if err := storage.UpdateUserRole(ctx, first, models.RoleSilver); err != nil {
				return err
			}
			return storage.UpdateUserRole(ctx, second, models.RoleGold)
		})
		require.NoError(t, err)

		u1, err := storage.GetUser(ctx, first)
		require.NoError(t, err)
		u2, err := storage.GetUser(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, models.RoleSilver, u1.Role)
		assert.Equal(t, models.RoleGold, u2.Role)
	})
}

func TestStorage_AccommodationsAndPayments(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	factory := NewTestDataFactory(t, storage)

	all, err := storage.ListAccommodations(ctx, false)
	require.NoError(t, err)
	active, err := storage.ListAccommodations(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, active, 2)

	got, err := storage.GetAccommodation(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Name, got.Name)

	_, err = storage.GetAccommodation(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	uid := factory.CreateUser("payer@example.com", models.RoleBronze)
	r := factory.CreateReservation(uid, time.Now().Add(24*time.Hour), "")

	p, err := storage.CreatePayment(ctx, models.Payment{
		ReservationID: r.ID,
		IntentID:      "pi_123",
		Amount:        r.Price,
		Currency:      "jpy",
		Status:        models.PaymentRequiresMethod,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	_, err = storage.CreatePayment(ctx, models.Payment{ReservationID: r.ID, IntentID: "pi_123", Currency: "jpy", Status: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	updated, err := storage.UpdatePaymentStatus(ctx, "pi_123", models.PaymentSucceeded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, updated.Status)

	byIntent, err := storage.GetPaymentByIntentID(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, r.ID, byIntent.ReservationID)

	_, err = storage.UpdatePaymentStatus(ctx, "pi_missing", models.PaymentFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}
