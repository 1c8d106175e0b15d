//go:build linux && !tinygo

package hal

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinThread locks the calling goroutine to its OS thread and binds that
// thread to a single CPU. Used by the simulator so each simulated core
// keeps to its own physical CPU, making cross-core ordering effects real.
func PinThread(cpu int) error {
	runtime.LockOSThread()
	if cpu < 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}
