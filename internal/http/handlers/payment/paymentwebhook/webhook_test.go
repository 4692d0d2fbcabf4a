package paymentwebhook

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

	"github.com/magabrotheeeer/carrydrop/internal/paymentprovider"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) HandleEvent(ctx context.Context, event *paymentprovider.Event) error {
	return m.Called(ctx, event).Error(0)
}

const secret = "whsec_test"

func newHandler(svc Service) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, secret)
}

func post(h http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(paymentprovider.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWebhook_Succeeded(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","status":"succeeded"}}}`)
	svc := new(MockService)
	svc.On("HandleEvent", mock.Anything, mock.MatchedBy(func(e *paymentprovider.Event) bool {
		return e.ID == "evt_1" && e.Type == paymentprovider.EventIntentSucceeded && e.Data.Object.ID == "pi_1"
	})).Return(nil)

	w := post(newHandler(svc), body, paymentprovider.Sign(body, secret, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestWebhook_Rejected(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	tests := []struct {
		name      string
		body      []byte
		signature string
		want      int
	}{
		{"missing signature", body, "", http.StatusUnauthorized},
		{"wrong secret", body, paymentprovider.Sign(body, "other", time.Now()), http.StatusUnauthorized},
		{"stale signature", body, paymentprovider.Sign(body, secret, time.Now().Add(-10*time.Minute)), http.StatusUnauthorized},
		{"signed garbage", []byte(`not json`), paymentprovider.Sign([]byte(`not json`), secret, time.Now()), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			w := post(newHandler(svc), tt.body, tt.signature)

			assert.Equal(t, tt.want, w.Code)
			svc.AssertNotCalled(t, "HandleEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestWebhook_ServiceError(t *testing.T) {
	body := []byte(`{"id":"evt_2","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2"}}}`)
	svc := new(MockService)
	svc.On("HandleEvent", mock.Anything, mock.Anything).Return(errors.New("db down"))

	w := post(newHandler(svc), body, paymentprovider.Sign(body, secret, time.Now()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook_EmptySecretRejectsEverything(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	svc := new(MockService)
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, "")

	w := post(h, body, paymentprovider.Sign(body, "", time.Now()))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "HandleEvent", mock.Anything, mock.Anything)
}
