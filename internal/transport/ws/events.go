package ws

import (
	"encoding/json"
	"time"
)

// Client -> server
const (
	EventTypePing = "ping"
)

// Server -> client
const (
	EventTypeApplicationCreated = "application.created"
	EventTypeApplicationUpdated = "application.updated"
	EventTypePong               = "pong"
	EventTypeError              = "error"
)

// Event is the envelope for every websocket message.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server->client event stamped with the current time.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
