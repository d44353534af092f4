//go:build linux

package cpu

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setAffinity binds the current OS thread. Must run under LockOSThread.
func setAffinity(core int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	// 0 = current thread
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("cpu: binding thread to core %d: %w", core, err)
	}
	return nil
}
