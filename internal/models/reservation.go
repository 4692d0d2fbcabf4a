package models

import (
	"fmt"
	"time"
)

// ReservationStatus — статус бронирования.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusPaid      ReservationStatus = "PAID"
	StatusInTransit ReservationStatus = "IN_TRANSIT"
	StatusDelivered ReservationStatus = "DELIVERED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Valid сообщает, является ли значение известным статусом.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Reservation представляет бронирование доставки багажа.
// Владелец (UserUID) не меняется после создания.
type Reservation struct {
	ID          string            `json:"id"`
	UserUID     string            `json:"user_id"`
	UserEmail   string            `json:"user_email"`
	UserName    *string           `json:"user_name,omitempty"`
	FromPlace   string            `json:"from_place"`
	ToPlace     string            `json:"to_place"`
	PickUpTime  time.Time         `json:"pick_up_time"`
	DropOffTime time.Time         `json:"drop_off_time"`
	Price       int               `json:"price"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// QRCodeValue возвращает значение QR-кода для выдачи багажа.
func (r *Reservation) QRCodeValue() string {
	return fmt.Sprintf("QR_CODE_FOR_%s", r.ID)
}

// DummyReservation используется для приёма данных из JSON-запроса
// на создание бронирования.
type DummyReservation struct {
	FromPlace   string    `json:"from_place" validate:"required"`
	ToPlace     string    `json:"to_place" validate:"required"`
	PickUpTime  time.Time `json:"pick_up_time" validate:"required"`
	DropOffTime time.Time `json:"drop_off_time" validate:"required"`
	Price       int       `json:"price" validate:"required,gt=0"`
}

// DummyStatus используется для приёма нового статуса из JSON-запроса.
type DummyStatus struct {
	Status ReservationStatus `json:"status" validate:"required"`
}

// ReservationResponse — представление бронирования в ответах API.
type ReservationResponse struct {
	*Reservation
	QRCodeValue string `json:"qr_code_value"`
}

// NewReservationResponse оборачивает бронирование для ответа.
func NewReservationResponse(r *Reservation) ReservationResponse {
	return ReservationResponse{Reservation: r, QRCodeValue: r.QRCodeValue()}
}

// StatusChangedEvent публикуется при каждом изменении статуса бронирования.
type StatusChangedEvent struct {
	ReservationID string            `json:"reservation_id"`
	UserUID       string            `json:"user_uid"`
	Status        ReservationStatus `json:"status"`
	ChangedAt     time.Time         `json:"changed_at"`
}
