package events

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := Encode(ApplicationCreated, at, ApplicationCreatedEvent{
		ApplicationID: 42,
		AccountNo:     "012345678901",
		IBAN:          "PK123456789012345678",
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	event, err := Decode(map[string]any{"event": string(data)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if event.Type != ApplicationCreated {
		t.Errorf("Type = %q, want %q", event.Type, ApplicationCreated)
	}
	if !event.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", event.Timestamp, at)
	}
	id, err := event.ApplicationID()
	if err != nil || id != 42 {
		t.Errorf("ApplicationID() = %d, %v; want 42", id, err)
	}
}

func TestDecodeRejectsMalformedMessages(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing field", map[string]any{}},
		{"wrong type", map[string]any{"event": 12}},
		{"bad json", map[string]any{"event": "{"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.values); !errors.Is(err, ErrMalformedEvent) {
				t.Errorf("Decode() error = %v, want ErrMalformedEvent", err)
			}
		})
	}
}
