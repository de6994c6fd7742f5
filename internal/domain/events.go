package domain

import "time"

type OrderPlacedEvent struct {
	OrderID   int       `json:"order_id"`
	Products  []Product `json:"products"`
	Timestamp time.Time `json:"timestamp"`
}
