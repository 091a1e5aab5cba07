package relay

import (
	"encoding/json"
	"fmt"

	"duochat/internal/models"
)

type EventType string

const (
	EventAuth    EventType = "auth"
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventRead    EventType = "read"
)

// Event is one inbound frame parsed into its tagged shape. Parsing is kept
// separate from dispatch so the protocol can be exercised without a live
// connection.
type Event struct {
	Type       EventType `json:"type"`
	UserID     int       `json:"userId,omitempty"`
	Content    string    `json:"content,omitempty"`
	ReceiverID int       `json:"receiverId,omitempty"`
	MessageID  int       `json:"messageId,omitempty"`
}

func parseEvent(raw []byte) (*Event, error) {
	ev := &Event{}
	if err := json.Unmarshal(raw, ev); err != nil {
		return nil, err
	}

	switch ev.Type {
	case EventAuth, EventMessage, EventTyping, EventRead:
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// Outbound frame shapes.
type messageFrame struct {
	Type    EventType       `json:"type"`
	Message *models.Message `json:"message"`
}

type typingFrame struct {
	Type   EventType `json:"type"`
	UserID int       `json:"userId"`
}

type readFrame struct {
	Type      EventType `json:"type"`
	MessageID int       `json:"messageId"`
}
