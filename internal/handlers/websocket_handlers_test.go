package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"duochat/internal/models"
	"duochat/internal/relay"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory relay.Store for driving the full websocket path.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	messages []*models.Message
	presence []presenceEvent
}

type presenceEvent struct {
	userID int
	online bool
}

func (s *memStore) CreateMessage(_ context.Context, senderID, receiverID int, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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

func (s *memStore) MarkMessageAsRead(_ context.Context, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.ID == messageID {
			msg.Read = true
		}
	}
	return nil
}

func (s *memStore) SetUserPresence(_ context.Context, userID int, isOnline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presence = append(s.presence, presenceEvent{userID: userID, online: isOnline})
	return nil
}

func (s *memStore) presenceEvents() []presenceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]presenceEvent(nil), s.presence...)
}

func (s *memStore) isOnline(userID int) bool {
	online := false
	for _, ev := range s.presenceEvents() {
		if ev.userID == userID {
			online = ev.online
		}
	}
	return online
}

func (s *memStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

type wsFrame struct {
	Type      string          `json:"type"`
	Message   *models.Message `json:"message"`
	UserID    int             `json:"userId"`
	MessageID int             `json:"messageId"`
}

func newRelayServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := &memStore{}
	h := NewWebSocketHandlers(relay.NewEngine(store))
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, store
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func readWSFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func authAndWait(t *testing.T, conn *websocket.Conn, store *memStore, userID int) {
	t.Helper()
	sendFrame(t, conn, `{"type":"auth","userId":`+strconv.Itoa(userID)+`}`)
	require.Eventually(t, func() bool { return store.isOnline(userID) },
		2*time.Second, 10*time.Millisecond, "user %d never came online", userID)
}


func TestWebSocket_MessageRelayBetweenTwoClients(t *testing.T) {
	srv, store := newRelayServer(t)

	connA := dial(t, srv)
	connB := dial(t, srv)
	authAndWait(t, connA, store, 1)
	authAndWait(t, connB, store, 2)

	sendFrame(t, connA, `{"type":"message","content":"hi","receiverId":2}`)

	delivered := readWSFrame(t, connB)
	require.Equal(t, "message", delivered.Type)
	require.NotNil(t, delivered.Message)
	assert.Equal(t, 1, delivered.Message.SenderID)
	assert.Equal(t, 2, delivered.Message.ReceiverID)
	assert.Equal(t, "hi", delivered.Message.Content)

	echo := readWSFrame(t, connA)
	require.NotNil(t, echo.Message)
	assert.Equal(t, delivered.Message.ID, echo.Message.ID)
	assert.Equal(t, "hi", echo.Message.Content)

	assert.Equal(t, 1, store.messageCount(), "exactly one row persisted")
}

func TestWebSocket_SupersessionKeepsUserOnline(t *testing.T) {
	srv, store := newRelayServer(t)

	conn1 := dial(t, srv)
	authAndWait(t, conn1, store, 1)

	conn2 := dial(t, srv)
	sendFrame(t, conn2, `{"type":"auth","userId":1}`)

	// The first connection must be closed by the registry.
	conn1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn1.ReadMessage()
	require.Error(t, err, "superseded connection should be closed by the server")

	// Give the first connection's cleanup path time to run, then verify it
	// never flipped the user offline.
	time.Sleep(200 * time.Millisecond)
	events := store.presenceEvents()
	assert.Equal(t, []presenceEvent{
		{userID: 1, online: true},
		{userID: 1, online: true},
	}, events)
	assert.True(t, store.isOnline(1))
}

func TestWebSocket_TypingToAbsentReceiverIsSilent(t *testing.T) {
	srv, store := newRelayServer(t)

	connA := dial(t, srv)
	authAndWait(t, connA, store, 1)

	sendFrame(t, connA, `{"type":"typing","receiverId":2}`)

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, store.messageCount(), "typing is never persisted")

	// Nothing comes back to the sender either.
	connA.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := connA.ReadMessage()
	require.Error(t, err)
}

func TestWebSocket_ReadReceiptRoundTrip(t *testing.T) {
	srv, store := newRelayServer(t)

	connA := dial(t, srv)
	connB := dial(t, srv)
	authAndWait(t, connA, store, 1)
	authAndWait(t, connB, store, 2)

	sendFrame(t, connA, `{"type":"message","content":"hi","receiverId":2}`)
	delivered := readWSFrame(t, connB)
	require.NotNil(t, delivered.Message)

	sendFrame(t, connB, `{"type":"read","messageId":`+strconv.Itoa(delivered.Message.ID)+`}`)

	receipt := readWSFrame(t, connB)
	assert.Equal(t, "read", receipt.Type)
	assert.Equal(t, delivered.Message.ID, receipt.MessageID)
}

func TestWebSocket_DisconnectMarksOffline(t *testing.T) {
	srv, store := newRelayServer(t)

	conn := dial(t, srv)
	authAndWait(t, conn, store, 1)

	conn.Close()

	require.Eventually(t, func() bool { return !store.isOnline(1) },
		2*time.Second, 10*time.Millisecond, "user should be marked offline after disconnect")
}

func TestWebSocket_FramesBeforeAuthAreIgnored(t *testing.T) {
	srv, store := newRelayServer(t)

	conn := dial(t, srv)
	sendFrame(t, conn, `{"type":"message","content":"hi","receiverId":2}`)
	sendFrame(t, conn, `this is not even json`)

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, store.messageCount())
	assert.Empty(t, store.presenceEvents())

	// The connection survives and can still authenticate.
	authAndWait(t, conn, store, 1)
}
