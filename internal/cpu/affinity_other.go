//go:build !linux && !windows

package cpu

// macOS and the BSDs only offer affinity hints, so threads are locked but
// not bound.
func setAffinity(int) error {
	return ErrUnsupported
}
