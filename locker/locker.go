package locker

import "sync"

// Every state-changing operation on a challenge is a read-modify-write over
// shared roster and payment fields, so each challenge id gets a single-writer
// mutex. Operations on different challenges proceed in parallel.

type registry struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

var challenges = &registry{locks: make(map[uint]*sync.Mutex)}

func (r *registry) get(id uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.locks[id]
	if !ok {
		m = &sync.Mutex{}
		r.locks[id] = m
	}
	return m
}

// Lock acquires the mutex for a challenge id and returns the unlock func.
func Lock(challengeID uint) func() {
	m := challenges.get(challengeID)
	m.Lock()
	return m.Unlock
}
