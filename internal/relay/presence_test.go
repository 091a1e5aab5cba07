package relay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresence_MarkOnlineAndOffline(t *testing.T) {
	store := &fakeStore{}
	p := NewPresence(store)

	p.MarkOnline(3)
	p.MarkOffline(3)

	assert.Equal(t, []presenceCall{
		{userID: 3, online: true},
		{userID: 3, online: false},
	}, store.presenceCalls())
}

func TestPresence_StoreFailureIsAbsorbed(t *testing.T) {
	store := &fakeStore{presenceErr: errors.New("connection refused")}
	p := NewPresence(store)

	// The stored flag is best-effort; failures must not propagate.
	p.MarkOnline(3)
	p.MarkOffline(3)

	assert.Empty(t, store.presenceCalls())
}
