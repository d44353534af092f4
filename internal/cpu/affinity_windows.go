//go:build windows

package cpu

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// setAffinity binds the current OS thread. Must run under LockOSThread.
func setAffinity(core int) error {
	// Bit N = CPU N
	mask := uintptr(1) << core
	prev, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prev == 0 {
		return fmt.Errorf("cpu: binding thread to core %d: %w", core, err)
	}
	return nil
}
