package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"duochat/internal/models"
)

// fakeStore records store calls and lets tests inject failures. It covers
// exactly the Store slice the relay depends on.
type fakeStore struct {
	mu          sync.Mutex
	messages    []*models.Message
	readIDs     []int
	presence    []presenceCall
	nextID      int
	createErr   error
	readErr     error
	presenceErr error
}

type presenceCall struct {
	userID int
	online bool
}

func (s *fakeStore) CreateMessage(_ context.Context, senderID, receiverID int, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	msg := &models.Message{
		ID:         s.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       models.MessageTypeText,
		Sent:       time.Now(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *fakeStore) MarkMessageAsRead(_ context.Context, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readErr != nil {
		return s.readErr
	}
	s.readIDs = append(s.readIDs, messageID)
	for _, msg := range s.messages {
		if msg.ID == messageID {
			msg.Read = true
		}
	}
	return nil
}

func (s *fakeStore) SetUserPresence(_ context.Context, userID int, isOnline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.presenceErr != nil {
		return s.presenceErr
	}
	s.presence = append(s.presence, presenceCall{userID: userID, online: isOnline})
	return nil
}

func (s *fakeStore) presenceCalls() []presenceCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]presenceCall(nil), s.presence...)
}

func (s *fakeStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

// newTestClient builds a client without an underlying connection; dispatch
// and registry code never touch the conn directly.
func newTestClient() *Client {
	return &Client{
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func isClosed(c *Client) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound frame")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected outbound frame: %s", payload)
	default:
	}
}
