package gateway

import "sync"

// redirectLatch is the mutual-exclusion flag guarding the 401 expiry
// sequence. It has two states, idle and pending: tryAcquire moves
// idle→pending and admits exactly one holder; release moves back to idle
// once the redirect has completed.
type redirectLatch struct {
	mu      sync.Mutex
	pending bool
}

func (l *redirectLatch) tryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending {
		return false
	}
	l.pending = true
	return true
}

func (l *redirectLatch) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = false
}
