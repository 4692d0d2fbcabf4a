package paymentprovider

import "errors"

// Типы событий webhook, которые обрабатывает сервис.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
	EventIntentCanceled  = "payment_intent.canceled"
)

// MetadataReservationID — ключ metadata с идентификатором бронирования.
const MetadataReservationID = "reservation_id"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrSignatureExpired = errors.New("webhook timestamp outside tolerance")
)

// CreateIntentRequest — параметры создания payment intent.
type CreateIntentRequest struct {
	Amount        int
	Currency      string
	ReservationID string
}

// PaymentIntent — ответ провайдера и объект внутри событий webhook.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int
	Currency     string
	Status       string
	Metadata     map[string]string
}

// Event — событие webhook.
type Event struct {
	ID   string
	Type string
	Data struct {
		Object PaymentIntent
	}
}

// APIError — тело ошибки провайдера.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return "payment provider: " + e.Type + ": " + e.Message
}
