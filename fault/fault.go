// Package fault implements the terminal state a core enters on an
// unrecoverable condition. Tripping the sink disables interrupts, emits a
// diagnostic, drives the failure indicator if one exists, records the
// fault as data, and parks the core. There is no recovery path and no
// cross-core signaling: each core halts independently.
package fault

import (
	"sync"

	"ember/hal"
)

// Kind classifies a fault.
type Kind uint8

const (
	KindNone Kind = iota
	KindBoot
	KindAllocFailed
	KindStackOverflow
	KindAssert
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBoot:
		return "boot"
	case KindAllocFailed:
		return "alloc_failed"
	case KindStackOverflow:
		return "stack_overflow"
	case KindAssert:
		return "assert"
	default:
		return "unknown"
	}
}

// Fault describes one unrecoverable condition.
type Fault struct {
	Kind Kind
	// Task names the offending task where one is known (stack overflow,
	// failed assertion inside a task).
	Task string
	Msg  string
}

// CoreState is the per-core fault state machine: Running until the first
// trip, Faulted forever after.
type CoreState uint8

const (
	Running CoreState = iota
	Faulted
)

// Config wires one core's sink to its hardware. Every field is optional;
// a missing indicator or controller never blocks the fault path.
type Config struct {
	Core   int
	Logger hal.Logger
	Intc   hal.InterruptController
	// Red is the hardware failure indicator.
	Red hal.LED
	// Park replaces the default terminal wait (an indefinite block) so
	// tests can observe the sink without halting.
	Park func()
}

// Sink is one core's fault terminal.
type Sink struct {
	cfg Config

	mu    sync.Mutex
	state CoreState
	fault Fault
}

// NewSink creates a sink in the Running state.
func NewSink(cfg Config) *Sink {
	if cfg.Park == nil {
		cfg.Park = func() { select {} }
	}
	return &Sink{cfg: cfg}
}

// Trip enters the terminal state: interrupts off, diagnostic out, failure
// indicator on, state recorded, core parked. The first fault wins; a trip
// on an already-faulted core only parks the caller.
func (s *Sink) Trip(f Fault) {
	s.mu.Lock()
	if s.state == Faulted {
		s.mu.Unlock()
		s.cfg.Park()
		return
	}
	s.state = Faulted
	s.fault = f
	s.mu.Unlock()

	if s.cfg.Intc != nil {
		s.cfg.Intc.DisableAll()
	}
	if s.cfg.Logger != nil {
		s.cfg.Logger.WriteLineString(diagnostic(f))
	}
	if s.cfg.Red != nil {
		s.cfg.Red.High()
	}
	s.cfg.Park()
}

// State reports whether the core is Running or Faulted.
func (s *Sink) State() CoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fault returns the recorded fault (zero value while Running).
func (s *Sink) Fault() Fault {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// Assert trips the sink when cond is false.
func Assert(s *Sink, cond bool, task, msg string) {
	if cond {
		return
	}
	s.Trip(Fault{Kind: KindAssert, Task: task, Msg: msg})
}

func diagnostic(f Fault) string {
	switch f.Kind {
	case KindStackOverflow:
		return "ERROR Stack overflow on task: " + f.Task
	case KindAllocFailed:
		if f.Msg != "" {
			return "ERROR Allocation failed: " + f.Msg
		}
		return "ERROR Allocation failed"
	case KindAssert:
		return "ERROR Assertion failed: " + f.Msg
	case KindBoot:
		return "ERROR Boot failed: " + f.Msg
	default:
		return "ERROR Fault: " + f.Msg
	}
}
