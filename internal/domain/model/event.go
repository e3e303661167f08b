package model

import (
	"encoding/json"
	"time"
)

// EventType names an order lifecycle event published to the broker.
type EventType string

const (
	EventOrderCreated           EventType = "order.created"
	EventOrderStatusChanged     EventType = "order.status_changed"
	EventOrderDeliveryConfirmed EventType = "order.delivery_confirmed"
)

// OrderEvent is a row of the events outbox.
type OrderEvent struct {
	ID          int64
	OrderID     string
	Type        EventType
	Payload     json.RawMessage
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// NewOrderEvent marshals payload into an outbox event for order.
func NewOrderEvent(orderID string, eventType EventType, payload any) (OrderEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OrderEvent{}, err
	}
	return OrderEvent{OrderID: orderID, Type: eventType, Payload: raw}, nil
}
