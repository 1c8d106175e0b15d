package hal

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// Spinlock is a cross-core test-and-set lock usable before any scheduler
// exists. The zero value is uninitialized; exactly one core must call Init
// before the lock is published to the others.
type Spinlock struct {
	_     [0]func() // prevent accidental copying.
	state atomic.Uint32
}

const (
	lockUninit uint32 = iota
	lockFree
	lockHeld
)

var ErrLockInit = errors.New("spinlock: already initialized")

// Init prepares the lock for use.
//
// Calling Init on a lock that was already initialized is an error; the
// caller treats it as a fatal boot condition.
func (l *Spinlock) Init() error {
	if !l.state.CompareAndSwap(lockUninit, lockFree) {
		return ErrLockInit
	}
	return nil
}

// Take busy-waits until the lock is acquired. The acquiring CAS carries
// acquire ordering; everything the previous holder wrote before Give is
// visible after Take returns.
//
// Taking an uninitialized lock spins forever. Ordering during boot
// guarantees Init happens first (the go signal is published after Init).
func (l *Spinlock) Take() {
	for !l.state.CompareAndSwap(lockFree, lockHeld) {
		runtime.Gosched()
	}
}

// TryTake attempts to acquire the lock without spinning.
func (l *Spinlock) TryTake() bool {
	return l.state.CompareAndSwap(lockFree, lockHeld)
}

// Give releases the lock. The store carries release ordering.
func (l *Spinlock) Give() {
	l.state.Store(lockFree)
}
