package services

import (
	"github.com/google/uuid"
)

// Notifier delivers best-effort events to subscribers of a topic. Notify
// must not block on slow or absent subscribers.
type Notifier interface {
	Notify(topic, event string, payload any)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string, string, any) {}

const (
	StaffTopic = "staff"

	EventStatusUpdate = "statusUpdate"
	EventOrderUpdate  = "orderUpdate"
	EventNewOrder     = "newOrder"
)

func OrderTopic(id uuid.UUID) string {
	return "order-" + id.String()
}

func UserTopic(id uuid.UUID) string {
	return "user-" + id.String()
}
