package relay

import "sync"

// Registry maintains the live userID -> client mapping. It is the
// authoritative source of who is currently reachable; the stored presence
// flag is only a projection of registry membership.
//
// Invariant: at most one entry per user at any instant.
type Registry struct {
	mu      sync.RWMutex
	clients map[int]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[int]*Client),
	}
}

// Register installs c as the connection for userID. An existing connection
// for the same user is closed before c becomes reachable, so two concurrent
// connect attempts for one identity converge to a single survivor.
func (r *Registry) Register(userID int, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.clients[userID]; ok && old != c {
		old.Close()
	}
	r.clients[userID] = c
}

func (r *Registry) Lookup(userID int) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[userID]
	return c, ok
}

// Remove deletes the entry for userID only if c is still the registered
// client, and reports whether a removal happened. A stale close arriving
// after a newer connection superseded c must not evict the newer entry.
func (r *Registry) Remove(userID int, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.clients[userID]
	if !ok || cur != c {
		return false
	}
	delete(r.clients, userID)
	return true
}

// Send attempts a best-effort delivery to userID and reports whether a live
// recipient existed. Absence is not an error; an offline user reads the
// message from history later.
func (r *Registry) Send(userID int, payload []byte) bool {
	r.mu.RLock()
	c, ok := r.clients[userID]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	c.enqueue(payload)
	return true
}

// Evict closes and removes whatever connection userID currently has.
func (r *Registry) Evict(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[userID]; ok {
		c.Close()
		delete(r.clients, userID)
	}
}

// Count returns the number of live entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}
