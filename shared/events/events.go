package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	ApplicationCreated = "application.created"
	ApplicationUpdated = "application.updated"
	ApplicationDeleted = "application.deleted"
)

// Stream names
const (
	ApplicationEventsStream = "application.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type ApplicationCreatedEvent struct {
	ApplicationID int64  `json:"applicationId"`
	AccountNo     string `json:"accountNo"`
	IBAN          string `json:"iban"`
	AccountType   string `json:"accountType,omitempty"`
	SubmittedBy   string `json:"submittedBy,omitempty"`
}

type ApplicationUpdatedEvent struct {
	ApplicationID int64    `json:"applicationId"`
	Fields        []string `json:"fields"`
	RequestedBy   string   `json:"requestedBy,omitempty"`
}

type ApplicationDeletedEvent struct {
	ApplicationID int64  `json:"applicationId"`
	RequestedBy   string `json:"requestedBy,omitempty"`
}

// ApplicationID extracts the application id from a decoded application event.
// Data arrives as a generic map after a round trip through the stream.
func (e Event) ApplicationID() (int64, error) {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to re-encode event data: %w", err)
	}
	var payload struct {
		ApplicationID int64 `json:"applicationId"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode event data: %w", err)
	}
	return payload.ApplicationID, nil
}
