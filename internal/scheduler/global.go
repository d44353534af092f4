package scheduler

import "sync"

// Slot holds at most one pool for its whole lifetime. The process-wide slot
// is returned by Global; tests and embedders may create private ones.
type Slot struct {
	mu   sync.Mutex
	pool *ThreadPool
}

var global Slot

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Global returns the process-wide slot.
func Global() *Slot {
	return &global
}

// Pool returns the installed pool, or nil if the slot is empty.
func (s *Slot) Pool() *ThreadPool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool
}

// Initialized reports whether a pool has been installed.
func (s *Slot) Initialized() bool {
	return s.Pool() != nil
}

// Current returns the process-wide pool, or nil before BuildGlobal.
func Current() *ThreadPool {
	return global.Pool()
}
