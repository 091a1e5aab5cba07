package relay

import (
	"context"
	"encoding/json"

	"duochat/internal/models"
	"duochat/pkg/logger"
)

// Store is the slice of the message store the relay needs.
type Store interface {
	CreateMessage(ctx context.Context, senderID, receiverID int, content string) (*models.Message, error)
	MarkMessageAsRead(ctx context.Context, messageID int) error
	SetUserPresence(ctx context.Context, userID int, isOnline bool) error
}

// Engine parses inbound frames, validates them against the connection's
// authenticated identity and dispatches to the store and the registry.
// Each connection is serviced by its own read goroutine; the registry is
// the only shared state.
type Engine struct {
	registry *Registry
	presence *Presence
	store    Store
}

func NewEngine(store Store) *Engine {
	return &Engine{
		registry: NewRegistry(),
		presence: NewPresence(store),
		store:    store,
	}
}

// HandleFrame processes one inbound frame. Malformed frames are dropped,
// never fatal. A connection accepts nothing but an auth event until it has
// authenticated; there is no server-side deadline for getting there.
func (e *Engine) HandleFrame(c *Client, raw []byte) {
	ev, err := parseEvent(raw)
	if err != nil {
		logger.Debug("Dropping malformed frame: %v", err)
		return
	}

	if c.userID == 0 {
		if ev.Type == EventAuth && ev.UserID != 0 {
			e.handleAuth(c, ev)
		}
		return
	}

	switch ev.Type {
	case EventMessage:
		e.handleMessage(c, ev)
	case EventTyping:
		e.handleTyping(c, ev)
	case EventRead:
		e.handleRead(c, ev)
	case EventAuth:
		// re-auth on a live connection is ignored
	}
}

// HandleClose runs the cleanup path for a closed or failed connection.
// The offline transition only fires if this client was still the registered
// one, so a superseded connection's close never flips a re-connected user
// offline.
func (e *Engine) HandleClose(c *Client) {
	if c.userID == 0 {
		return
	}
	if e.registry.Remove(c.userID, c) {
		e.presence.MarkOffline(c.userID)
		logger.Info("Connection closed for user: %d", c.userID)
	}
}

func (e *Engine) handleAuth(c *Client, ev *Event) {
	c.userID = ev.UserID
	e.registry.Register(ev.UserID, c)
	e.presence.MarkOnline(ev.UserID)
	logger.Info("User authenticated: %d", ev.UserID)
}

func (e *Engine) handleMessage(c *Client, ev *Event) {
	if ev.Content == "" || ev.ReceiverID == 0 {
		return
	}

	msg, err := e.store.CreateMessage(context.Background(), c.userID, ev.ReceiverID, ev.Content)
	if err != nil {
		logger.Error("Failed to persist message from %d to %d: %v", c.userID, ev.ReceiverID, err)
		return
	}

	payload, err := json.Marshal(messageFrame{Type: EventMessage, Message: msg})
	if err != nil {
		logger.Error("Failed to marshal message frame: %v", err)
		return
	}

	// Best-effort delivery to the receiver, unconditional echo to the
	// sender as the delivery confirmation. Persistence already happened
	// exactly once either way.
	e.registry.Send(ev.ReceiverID, payload)
	c.enqueue(payload)
}

func (e *Engine) handleTyping(c *Client, ev *Event) {
	if ev.ReceiverID == 0 {
		return
	}

	payload, err := json.Marshal(typingFrame{Type: EventTyping, UserID: c.userID})
	if err != nil {
		logger.Error("Failed to marshal typing frame: %v", err)
		return
	}
	e.registry.Send(ev.ReceiverID, payload)
}

func (e *Engine) handleRead(c *Client, ev *Event) {
	if ev.MessageID == 0 {
		return
	}

	// The caller is not checked against the message's receiver: any
	// authenticated client may flag any message id as read.
	if err := e.store.MarkMessageAsRead(context.Background(), ev.MessageID); err != nil {
		logger.Error("Failed to mark message %d as read: %v", ev.MessageID, err)
		return
	}

	payload, err := json.Marshal(readFrame{Type: EventRead, MessageID: ev.MessageID})
	if err != nil {
		logger.Error("Failed to marshal read frame: %v", err)
		return
	}
	c.enqueue(payload)
}

// AddClient and RemoveClient let non-connection code paths (account
// lifecycle operations) force a presence transition. Any live connection
// for the user is closed first.
func (e *Engine) AddClient(userID int) {
	e.registry.Evict(userID)
	e.presence.MarkOnline(userID)
}

func (e *Engine) RemoveClient(userID int) {
	e.registry.Evict(userID)
	e.presence.MarkOffline(userID)
}
