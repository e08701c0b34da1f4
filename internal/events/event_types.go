package events

import (
	"time"

	"github.com/waterworks/water-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventComplaintFiled           EventType = "complaint_filed"
	EventComplaintResponded       EventType = "complaint_responded"
)

// Actor identifies who triggered an event. Applicants are known only by the
// username they supplied.
type Actor struct {
	Type     domain.SubjectType `json:"type,omitempty"`
	Username string             `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	ApplicationID int64       `json:"application_id"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	PhoneNumber string `json:"phone_number"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	OldStatus domain.ApplicationStatus `json:"old_status"`
	NewStatus domain.ApplicationStatus `json:"new_status"`
}

// ComplaintFiledPayload payload.
type ComplaintFiledPayload struct {
	ComplaintID    int64  `json:"complaint_id"`
	MessagePreview string `json:"message_preview"`
}

// ComplaintRespondedPayload payload.
type ComplaintRespondedPayload struct {
	ComplaintID int64     `json:"complaint_id"`
	RespondedAt time.Time `json:"responded_at"`
}
