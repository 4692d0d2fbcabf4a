package create

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/carrydrop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/carrydrop/internal/models"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, email string, req models.DummyReservation) (*models.Reservation, error) {
	args := m.Called(ctx, email, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateHandler(t *testing.T) {
	pickUp := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	dropOff := pickUp.Add(8 * time.Hour)
	valid := `{"from_place":"Haneda T3","to_place":"Shinjuku Hotel","pick_up_time":"2026-11-01T09:00:00Z","drop_off_time":"2026-11-01T17:00:00Z","price":3800}`
	dummy := models.DummyReservation{
		FromPlace: "Haneda T3", ToPlace: "Shinjuku Hotel",
		PickUpTime: pickUp, DropOffTime: dropOff, Price: 3800,
	}

	tests := []struct {
		name           string
		body           string
		noRequester    bool
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "owner@example.com", dummy).Return(&models.Reservation{
					ID: "r-1", FromPlace: "Haneda T3", ToPlace: "Shinjuku Hotel",
					PickUpTime: pickUp, DropOffTime: dropOff, Price: 3800, Status: models.StatusPending,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"qr_code_value":"QR_CODE_FOR_r-1"`,
		},
		{
			name:           "без токена",
			body:           valid,
			noRequester:    true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "некорректный json",
			body:           `{"price":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "ошибка валидации",
			body:           `{"from_place":"Haneda T3","price":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ToPlace is a required field`,
		},
		{
			name: "неверный интервал",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "owner@example.com", dummy).Return(nil, reservationservice.ErrInvalidTimeRange)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `drop-off time must be after pick-up time`,
		},
		{
			name: "пользователь не найден",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "owner@example.com", dummy).Return(nil, reservationservice.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
		{
			name: "ошибка сервиса",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "owner@example.com", dummy).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create reservation"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(tt.body))
			if !tt.noRequester {
				req = req.WithContext(middlewarectx.WithRequester(req.Context(),
					models.Requester{UserUID: "u-1", Email: "owner@example.com"}))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
