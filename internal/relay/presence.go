package relay

import (
	"context"

	"duochat/pkg/logger"
)

// Presence mirrors registry membership into the stored is_online flag.
// Failures are logged and absorbed; the flag is a best-effort projection,
// never read back to decide reachability.
type Presence struct {
	store Store
}

func NewPresence(store Store) *Presence {
	return &Presence{store: store}
}

func (p *Presence) MarkOnline(userID int) {
	if err := p.store.SetUserPresence(context.Background(), userID, true); err != nil {
		logger.Error("Failed to mark user %d online: %v", userID, err)
	}
}

func (p *Presence) MarkOffline(userID int) {
	if err := p.store.SetUserPresence(context.Background(), userID, false); err != nil {
		logger.Error("Failed to mark user %d offline: %v", userID, err)
	}
}
