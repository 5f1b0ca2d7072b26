package booking

import "sync"

// lockTable hands out one mutex per key, created on first use. Keys are
// never removed; the directory of rooms and organizations is small and
// long-lived.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	return lock
}

// lockPair acquires the room lock then the organization lock, covering the
// whole read-check-mutate sequence of a booking or cancellation. The fixed
// acquisition order prevents deadlock between concurrent attempts.
func (e *Engine) lockPair(roomID, orgID string) func() {
	roomLock := e.roomLocks.get(roomID)
	orgLock := e.orgLocks.get(orgID)
	roomLock.Lock()
	orgLock.Lock()
	return func() {
		orgLock.Unlock()
		roomLock.Unlock()
	}
}
