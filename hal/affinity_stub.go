//go:build !linux && !tinygo

package hal

import "runtime"

// PinThread locks the calling goroutine to its OS thread. CPU affinity is
// a no-op on this platform.
func PinThread(cpu int) error {
	_ = cpu
	runtime.LockOSThread()
	return nil
}
