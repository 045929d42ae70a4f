package scheduler

import "sync"

// RoomLocks serializes check-then-write sequences per room so two concurrent
// booking requests for the same room cannot both pass the overlap check
// before either writes.
//
// Locks are created on demand and retained for the lifetime of the process;
// the set of rooms is small and bounded by the catalog.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRoomLocks returns an empty lock registry.
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given room and returns the corresponding
// unlock function. Callers must invoke the returned function exactly once,
// typically via defer.
func (l *RoomLocks) Lock(roomID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[roomID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
