package kernel

import "runtime"

// Context provides task-local access to kernel operations.
type Context struct {
	k   *Kernel
	cfg TaskConfig
}

// Name returns the task's name.
func (c *Context) Name() string { return c.cfg.Name }

// Priority returns the task's priority.
func (c *Context) Priority() Priority { return c.cfg.Priority }

// Ticks returns the current timebase value.
func (c *Context) Ticks() uint64 { return c.k.Ticks() }

// DelayUntil suspends the task until the absolute deadline *wake + period,
// then advances *wake by period. Deadlines are absolute, so jitter in the
// work between wakeups does not accumulate into drift. If the deadline has
// already passed the task continues immediately.
//
// Returns false when the kernel is stopping; the task should return.
func (c *Context) DelayUntil(wake *uint64, period uint64) bool {
	target := *wake + period
	*wake = target
	return c.k.waitTick(target)
}

// WaitTick suspends the task until the timebase reaches target. Returns
// false when the kernel is stopping.
func (c *Context) WaitTick(target uint64) bool {
	return c.k.waitTick(target)
}

// Yield lets other ready tasks run.
func (c *Context) Yield() {
	runtime.Gosched()
}
