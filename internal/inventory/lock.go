package inventory

import "sync"

// roomLocks serializes check-then-commit per room type so two concurrent
// reservations cannot both pass the check phase on overlapping dates.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *roomLocks) get(roomTypeID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[roomTypeID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomTypeID] = l
	}

	return l
}
