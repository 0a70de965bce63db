package events

import (
	"time"

	"github.com/spec-kit/item-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserSignedIn    EventType = "user_signed_in"
	EventUserSignedOut   EventType = "user_signed_out"
	EventAdmissionDenied EventType = "admission_denied"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// UserSignedInPayload payload.
type UserSignedInPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// AdmissionDeniedPayload payload.
type AdmissionDeniedPayload struct {
	Kind      string `json:"kind"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Path      string `json:"path"`
}
