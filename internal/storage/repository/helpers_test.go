package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/carrydrop/internal/migrations"
	"github.com/magabrotheeeer/carrydrop/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	t       *testing.T
	storage *Storage
}

func NewTestDataFactory(t *testing.T, storage *Storage) *TestDataFactory {
	return &TestDataFactory{t: t, storage: storage}
}

func (f *TestDataFactory) CreateUser(email string, role models.MemberRole) string {
	uid, err := f.storage.CreateUser(context.Background(), models.User{Email: email, Role: role})
	require.NoError(f.t, err)
	return uid
}

func (f *TestDataFactory) CreateReservation(userUID string, pickUp time.Time, status models.ReservationStatus) *models.Reservation {
	r, err := f.storage.CreateReservation(context.Background(), models.Reservation{
		UserUID:     userUID,
		FromPlace:   "Haneda Airport",
		ToPlace:     "Shibuya Hotel",
		PickUpTime:  pickUp,
		DropOffTime: pickUp.Add(4 * time.Hour),
		Price:       3800,
		Status:      status,
	})
	require.NoError(f.t, err)
	return r
}
