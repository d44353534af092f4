// Package cpu binds the calling goroutine's OS thread to a core.
package cpu

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned by Pin on platforms without thread affinity.
var ErrUnsupported = errors.New("cpu: thread affinity is not supported on this platform")

// Pinned is a goroutine locked to its OS thread. Release undoes the lock.
type Pinned struct {
	core int
}

// Core returns the core the thread was bound to, or -1 if it is only locked.
func (p *Pinned) Core() int { return p.core }

// Release unlocks the goroutine from its OS thread.
func (p *Pinned) Release() {
	runtime.UnlockOSThread()
}

// Lock locks the calling goroutine to its OS thread without binding a core.
func Lock() *Pinned {
	runtime.LockOSThread()
	return &Pinned{core: -1}
}

// Pin locks the calling goroutine to its OS thread and binds that thread to
// core slot mod NumCPU. The lock is held even when binding fails; callers
// must Release it either way.
func Pin(slot int) (*Pinned, error) {
	p := Lock()
	core := coreFor(slot)
	if err := setAffinity(core); err != nil {
		return p, err
	}
	p.core = core
	return p, nil
}

// NumCPU returns the number of logical CPUs usable by the process.
func NumCPU() int {
	return runtime.NumCPU()
}

func coreFor(slot int) int {
	n := runtime.NumCPU()
	slot %= n
	if slot < 0 {
		slot += n
	}
	return slot
}
