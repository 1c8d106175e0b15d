// Package kernel provides the real-time kernel API the demo runs on:
// task creation with priorities and stack accounting, a tick timebase
// with absolute-deadline delays, bounded message queues, and the fault
// hooks the kernel invokes on resource exhaustion.
//
// Task goroutines are scheduled by the Go runtime. Priorities are
// declarative metadata: the demo's cadence guarantee (the consumer drains
// the queue before the producer's next cycle) is a soft real-time
// property of the task set, not something the kernel enforces.
package kernel

import (
	"context"
	"errors"
	"sync"
)

// Priority orders tasks relative to each other.
type Priority uint8

const (
	PriorityIdle Priority = iota
	PriorityLow
	PriorityHigh
)

const (
	// DefaultHeapBytes models the kernel heap that task stacks and queue
	// storage are carved from.
	DefaultHeapBytes = 32 * 1024

	// MinStackBytes is the smallest stack a task may request.
	MinStackBytes = 512

	idleStackBytes     = 512
	taskOverheadBytes  = 64
	queueOverheadBytes = 64
)

var (
	ErrOutOfHeap = errors.New("kernel: out of heap")
	ErrStarted   = errors.New("kernel: scheduler already started")
)

// TaskFunc is a task entry routine. It runs until it returns; blocking
// kernel operations report false once the kernel is stopping, which is
// the task's cue to return.
type TaskFunc func(*Context)

// TaskConfig describes one task.
type TaskConfig struct {
	Name       string
	StackBytes int
	Priority   Priority
}

// Hooks are callbacks the kernel invokes on its own behalf. The affected
// resource is passed as a parameter; hooks never consult globals.
type Hooks struct {
	// AllocFailed fires when a Spawn or NewQueue request exceeds the
	// remaining heap. what names the resource that failed to allocate.
	AllocFailed func(what string)
	// StackOverflow fires when a task's stack is detected as overflowed,
	// carrying the offending task's name.
	StackOverflow func(task string)
	// Idle fires once per tick in which the idle task runs.
	Idle func()
	// Tick fires on every timebase advance.
	Tick func(now uint64)
}

type task struct {
	cfg TaskConfig
	fn  TaskFunc
}

// Kernel is one core's scheduler instance.
//
// All waiting (tick delays, queue sends and receives) shares a single
// condition variable broadcast on every tick advance and queue mutation.
type Kernel struct {
	mu   sync.Mutex
	cond *sync.Cond

	tick     uint64
	stopped  bool
	started  bool
	heapFree int

	tasks []task
	hooks Hooks
}

// New creates a kernel with the default heap budget.
func New() *Kernel {
	return NewWithHeap(DefaultHeapBytes)
}

// NewWithHeap creates a kernel with an explicit heap budget in bytes.
func NewWithHeap(bytes int) *Kernel {
	k := &Kernel{heapFree: bytes}
	k.cond = sync.NewCond(&k.mu)
	return k
}

// SetHooks installs the kernel hooks. Call before Start.
func (k *Kernel) SetHooks(h Hooks) {
	k.mu.Lock()
	k.hooks = h
	k.mu.Unlock()
}

// Spawn registers a task. Its stack is charged against the heap budget;
// on exhaustion the alloc-failed hook fires and ErrOutOfHeap is returned.
func (k *Kernel) Spawn(cfg TaskConfig, fn TaskFunc) error {
	if fn == nil {
		return errors.New("kernel: nil task function")
	}
	if cfg.StackBytes < MinStackBytes {
		cfg.StackBytes = MinStackBytes
	}

	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return ErrStarted
	}
	need := cfg.StackBytes + taskOverheadBytes
	if need > k.heapFree {
		hook := k.hooks.AllocFailed
		k.mu.Unlock()
		if hook != nil {
			hook("task " + cfg.Name)
		}
		return ErrOutOfHeap
	}
	k.heapFree -= need
	k.tasks = append(k.tasks, task{cfg: cfg, fn: fn})
	k.mu.Unlock()
	return nil
}

// Start launches every spawned task plus the idle task, then blocks until
// ctx is done. Under normal operation the context never fires and Start
// never returns. An ErrOutOfHeap return means the idle task's stack could
// not be allocated and the scheduler did not start.
func (k *Kernel) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return ErrStarted
	}
	if idleStackBytes > k.heapFree {
		hook := k.hooks.AllocFailed
		k.mu.Unlock()
		if hook != nil {
			hook("idle task")
		}
		return ErrOutOfHeap
	}
	k.heapFree -= idleStackBytes
	k.started = true
	tasks := make([]task, len(k.tasks))
	copy(tasks, k.tasks)
	k.mu.Unlock()

	for _, t := range tasks {
		t := t
		go t.fn(&Context{k: k, cfg: t.cfg})
	}
	go k.idleLoop()

	<-ctx.Done()
	k.stop()
	return ctx.Err()
}

func (k *Kernel) idleLoop() {
	last := k.Ticks()
	for {
		if !k.waitTick(last + 1) {
			return
		}
		last++
		k.mu.Lock()
		hook := k.hooks.Idle
		k.mu.Unlock()
		if hook != nil {
			hook()
		}
	}
}

func (k *Kernel) stop() {
	k.mu.Lock()
	k.stopped = true
	k.cond.Broadcast()
	k.mu.Unlock()
}

// Ticks returns the current timebase value.
func (k *Kernel) Ticks() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick
}

// Tick advances the timebase by one.
func (k *Kernel) Tick() {
	k.TickTo(k.Ticks() + 1)
}

// TickTo advances the timebase to seq and wakes every waiter whose
// deadline has passed. Regressions are ignored; the timebase is monotonic.
func (k *Kernel) TickTo(seq uint64) {
	k.mu.Lock()
	if seq <= k.tick {
		k.mu.Unlock()
		return
	}
	k.tick = seq
	hook := k.hooks.Tick
	k.cond.Broadcast()
	k.mu.Unlock()
	if hook != nil {
		hook(seq)
	}
}

// HeapFree reports the remaining heap budget in bytes.
func (k *Kernel) HeapFree() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.heapFree
}

// ReportStackOverflow invokes the stack-overflow hook for the named task.
// The Go runtime grows goroutine stacks, so overflow cannot occur
// organically here; the entry point serves the fault path and hardware
// ports whose runtime does detect overflow.
func (k *Kernel) ReportStackOverflow(task string) {
	k.mu.Lock()
	hook := k.hooks.StackOverflow
	k.mu.Unlock()
	if hook != nil {
		hook(task)
	}
}

// waitTick blocks until the timebase reaches target. Returns false if the
// kernel stopped first.
func (k *Kernel) waitTick(target uint64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for k.tick < target && !k.stopped {
		k.cond.Wait()
	}
	return !k.stopped
}
