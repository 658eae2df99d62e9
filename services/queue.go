package services

import "sync"

// keyedQueue runs functions one at a time per key, in arrival order as far as
// sync.Mutex allows. Different keys do not block each other.
type keyedQueue struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	mu   sync.Mutex
	refs int
}

func newKeyedQueue() *keyedQueue {
	return &keyedQueue{lanes: make(map[string]*lane)}
}

// Do runs fn while holding the lane for key.
func (q *keyedQueue) Do(key string, fn func() error) error {
	q.mu.Lock()
	l, ok := q.lanes[key]
	if !ok {
		l = &lane{}
		q.lanes[key] = l
	}
	l.refs++
	q.mu.Unlock()

	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		q.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(q.lanes, key)
		}
		q.mu.Unlock()
	}()

	return fn()
}
