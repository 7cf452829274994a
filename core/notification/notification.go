package notification

import (
	"encoding/json"
	"time"
)

// Event types pushed by the registry's notification channel.
const (
	EventPatientAssigned    = "PATIENT_ASSIGNED"
	EventPatientTransferred = "PATIENT_TRANSFERRED"
	EventPatientReevaluated = "PATIENT_REEVALUATED"
)

// Notification is a single message from the registry's notification channel.
type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	EventType string          `json:"eventType"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	IsRead    bool            `json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}
