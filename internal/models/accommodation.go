package models

import "time"

// Accommodation — отель или апартаменты партнёра, куда доставляется багаж.
type Accommodation struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	DetailAddress      *string   `json:"detail_address,omitempty"`
	AccessInstructions *string   `json:"access_instructions,omitempty"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	DeliveryStartTime  string    `json:"delivery_start_time"` // HH:MM
	DeliveryEndTime    string    `json:"delivery_end_time"`   // HH:MM
	DeliveryFee        int       `json:"delivery_fee"`
	IsActive           bool      `json:"is_active"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
