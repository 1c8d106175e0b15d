// Package boot implements the multi-core bring-up protocol: a go-signal
// barrier that holds secondary cores until the primary has initialized the
// shared lock, and a checkin gate that holds the primary until every core
// has announced itself.
//
// Both waits are deliberate busy-spins: they run before any scheduler
// exists, and the core topology is fixed, so an absent peer is a fatal
// misconfiguration rather than a condition to time out on.
package boot

import (
	"errors"
	"runtime"
	"sync/atomic"

	"ember/hal"
)

var (
	ErrBadTopology   = errors.New("boot: total core count must be at least 1")
	ErrCheckinExcess = errors.New("boot: more checkins than cores")
)

// State is the shared synchronization state for one bring-up. It is
// created once by the runtime and handed to every core's entry routine;
// no boot-phase state lives in package globals.
type State struct {
	lock hal.Spinlock

	// ready is the go signal: written exactly once by the primary core
	// after the lock is initialized. The atomic store publishes with
	// release ordering and the polling load observes with acquire
	// ordering, so a secondary that sees ready==1 also sees the
	// initialized lock.
	ready atomic.Uint32

	// checkins is mutated only while holding lock. It is atomic so the
	// primary can poll it without taking the lock during the poll.
	checkins atomic.Uint32

	total uint32
}

// NewState creates the shared state for totalCores participants.
func NewState(totalCores int) (*State, error) {
	if totalCores < 1 {
		return nil, ErrBadTopology
	}
	return &State{total: uint32(totalCores)}, nil
}

// TotalCores reports the participant count.
func (s *State) TotalCores() int { return int(s.total) }

// SignalReady initializes the lock and publishes the go signal. Primary
// core only; a lock initialization failure is a fatal boot error for the
// caller to report.
func (s *State) SignalReady() error {
	if err := s.lock.Init(); err != nil {
		return err
	}
	s.ready.Store(1)
	return nil
}

// AwaitReady spins until the go signal is set. Secondary cores call this
// before touching the lock. No timeout: see the package comment.
func (s *State) AwaitReady() {
	for s.ready.Load() == 0 {
		runtime.Gosched()
	}
}

// Ready reports whether the go signal has been published.
func (s *State) Ready() bool { return s.ready.Load() != 0 }

// Checkin registers the calling core at the rendezvous, exactly once per
// core, under the lock. A checkin beyond the core count reports
// ErrCheckinExcess and leaves the counter alone.
func (s *State) Checkin() error {
	s.lock.Take()
	n := s.checkins.Load()
	if n >= s.total {
		s.lock.Give()
		return ErrCheckinExcess
	}
	s.checkins.Store(n + 1)
	s.lock.Give()
	return nil
}

// AwaitAllCheckins spins until every core has checked in. Primary core
// only; the poll reads the counter atomically without holding the lock.
func (s *State) AwaitAllCheckins() {
	for s.checkins.Load() != s.total {
		runtime.Gosched()
	}
}

// CheckedIn reports how many cores have checked in so far.
func (s *State) CheckedIn() int { return int(s.checkins.Load()) }
