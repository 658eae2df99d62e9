package services

import (
	"sync"

	"github.com/yashrajoria/storefront-session/models"
)

// SessionState is the lifecycle of the session.
type SessionState int

const (
	// StateUnknown is the window before persisted storage has been read.
	StateUnknown SessionState = iota
	StateGuest
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is the read-only view screens render from.
type Snapshot struct {
	State          SessionState
	Authenticated  bool
	Token          string
	User           *models.UserProfile
	CartCount      int
	FavoritesCount int
}

// broadcaster fans snapshots out to subscribers. Each subscriber holds at most
// the latest snapshot, so a slow reader never blocks the store.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Snapshot
	next int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Snapshot)}
}

func (b *broadcaster) subscribe(initial Snapshot) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	ch <- initial

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *broadcaster) publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		// drop the stale value and replace it
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
