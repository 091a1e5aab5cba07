package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"duochat/internal/auth"
	"duochat/internal/database"
	"duochat/pkg/logger"
)

type MessageHandlers struct {
	authService *auth.Service
	db          database.MessageRepository
}

func NewMessageHandlers(authService *auth.Service, db database.MessageRepository) *MessageHandlers {
	return &MessageHandlers{
		authService: authService,
		db:          db,
	}
}

// GetMessages returns the full conversation between the caller and the peer
// named in the path, oldest first.
func (h *MessageHandlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := userFromRequest(r.Context(), h.authService, r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	peerID, err := peerIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	messages, err := h.db.GetMessages(r.Context(), user.ID, peerID)
	if err != nil {
		logger.Error("Get messages error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

func peerIDFromPath(r *http.Request) (int, error) {
	parts := strings.Split(strings.TrimSuffix(r.URL.Path, "/"), "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid path")
	}

	return strconv.Atoi(parts[len(parts)-1])
}
