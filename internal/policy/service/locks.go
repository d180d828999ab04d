package service

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// policyLocks serializes state-changing operations per policy. Settlement,
// status updates and cancellation on the same policy never interleave; the
// database guards (conditional updates) remain as the second line of defense
// across processes.
type policyLocks struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

func newPolicyLocks() *policyLocks {
	return &policyLocks{locks: make(map[snowflake.ID]*sync.Mutex)}
}

// Acquire locks the policy's mutex and returns the release func.
func (l *policyLocks) Acquire(id snowflake.ID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
