package model

import (
	"time"
)

// Event types published for service request lifecycle changes.
const (
	EventServiceRequestCreated       = "service_request.created"
	EventServiceRequestStatusChanged = "service_request.status_changed"
)

type ServiceRequestEvent struct {
	Type             string               `json:"type"`
	ServiceRequestID string               `json:"service_request_id"`
	UserID           string               `json:"user_id"`
	NurseID          string               `json:"nurse_id"`
	Estado           ServiceRequestStatus `json:"estado"`
	ActorID          string               `json:"actor_id"`
	OccurredAt       time.Time            `json:"occurred_at"`
}
