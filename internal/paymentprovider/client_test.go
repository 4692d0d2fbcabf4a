package paymentprovider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "intent-res-1", r.Header.Get("Idempotency-Key"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "3800", r.PostForm.Get("amount"))
		assert.Equal(t, "jpy", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "res-1", r.PostForm.Get("metadata[reservation_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret",` +
			`"amount":3800,"currency":"jpy","status":"requires_payment_method","metadata":{"reservation_id":"res-1"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "sk_test", time.Second, 10)
	intent, err := c.CreateIntent(context.Background(), CreateIntentRequest{Amount: 3800, Currency: "JPY", ReservationID: "res-1"})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	assert.Equal(t, 3800, intent.Amount)
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.Equal(t, "res-1", intent.Metadata[MetadataReservationID])
}

func TestClient_CreateIntent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"declined"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "sk_test", time.Second, 10).
		CreateIntent(context.Background(), CreateIntentRequest{Amount: 1, Currency: "jpy", ReservationID: "r"})

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Equal(t, "card_error", apiErr.Type)
	assert.Equal(t, "declined", apiErr.Message)
}

func TestClient_CreateIntent_ContextCanceled(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "sk_test", time.Second, 10).
		CreateIntent(ctx, CreateIntentRequest{Amount: 1, Currency: "jpy", ReservationID: "r"})

	require.Error(t, err)
	assert.Zero(t, calls)
}

func TestConstructEvent(t *testing.T) {
	body := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded",` +
		`"data":{"object":{"id":"pi_1","object":"payment_intent","status":"succeeded","metadata":{"reservation_id":"r-1"}}}}`)
	now := time.Now()
	header := Sign(body, "whsec", now)

	tests := []struct {
		name    string
		body    []byte
		header  string
		secret  string
		wantErr error
	}{
		{name: "valid", body: body, header: header, secret: "whsec"},
		{name: "expired", body: body, header: Sign(body, "whsec", now.Add(-10*time.Minute)), secret: "whsec", wantErr: ErrSignatureExpired},
		{name: "wrong secret", body: body, header: header, secret: "other", wantErr: ErrInvalidSignature},
		{name: "tampered body", body: []byte(`{}`), header: header, secret: "whsec", wantErr: ErrInvalidSignature},
		{name: "missing header", body: body, header: "", secret: "whsec", wantErr: ErrInvalidSignature},
		{name: "empty secret", body: body, header: Sign(body, "", now), secret: "", wantErr: ErrInvalidSignature},
		{name: "extra signatures", body: body, header: header + ",v1=deadbeef,v0=ignored", secret: "whsec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ConstructEvent(tt.body, tt.header, tt.secret, DefaultTolerance)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "evt_1", event.ID)
			assert.Equal(t, EventIntentSucceeded, event.Type)
			assert.Equal(t, "pi_1", event.Data.Object.ID)
			assert.Equal(t, "r-1", event.Data.Object.Metadata[MetadataReservationID])
		})
	}
}

func TestConstructEvent_BadPayload(t *testing.T) {
	now := time.Now()
	for _, body := range [][]byte{[]byte(`{"id":"evt_2"}`), []byte(`not json`)} {
		_, err := ConstructEvent(body, Sign(body, "whsec", now), "whsec", DefaultTolerance)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidSignature)
		assert.NotErrorIs(t, err, ErrSignatureExpired)
	}
}
