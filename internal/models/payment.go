package models

import "time"

// Статусы платежа у провайдера.
const (
	PaymentRequiresMethod = "requires_payment_method"
	PaymentSucceeded      = "succeeded"
	PaymentFailed         = "failed"
	PaymentCanceled       = "canceled"
)

// Payment хранит payment intent, созданный для бронирования.
type Payment struct {
	ID            int       `json:"id"`
	ReservationID string    `json:"reservation_id"`
	IntentID      string    `json:"intent_id"`
	Amount        int       `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentIntentResponse возвращается клиенту для подтверждения оплаты на фронтенде.
type PaymentIntentResponse struct {
	ClientSecret  string `json:"client_secret"`
	ReservationID string `json:"reservation_id"`
	Amount        int    `json:"amount"`
	Currency      string `json:"currency"`
}
