package kernel

import "errors"

// Forever blocks a queue operation indefinitely.
const Forever = ^uint64(0)

// Queue is a fixed-capacity message queue carrying 32-bit values between
// tasks. Waiting is true suspension on the kernel's condition variable,
// never a spin. Delivery is FIFO: with a single producer and a single
// consumer, values arrive in send order with no loss and no duplication.
type Queue struct {
	k    *Kernel
	buf  []uint32
	head int
	n    int
}

// NewQueue allocates a queue, charging its storage against the heap
// budget. On exhaustion the alloc-failed hook fires and ErrOutOfHeap is
// returned.
func (k *Kernel) NewQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, errors.New("kernel: queue capacity must be positive")
	}

	k.mu.Lock()
	need := capacity*4 + queueOverheadBytes
	if need > k.heapFree {
		hook := k.hooks.AllocFailed
		k.mu.Unlock()
		if hook != nil {
			hook("queue")
		}
		return nil, ErrOutOfHeap
	}
	k.heapFree -= need
	k.mu.Unlock()

	return &Queue{k: k, buf: make([]uint32, capacity)}, nil
}

// Send enqueues v. A timeout of 0 is a non-blocking attempt; Forever
// waits indefinitely; any other value waits until that many ticks have
// elapsed. Returns false if no slot freed in time or the kernel stopped.
func (q *Queue) Send(v uint32, timeout uint64) bool {
	k := q.k
	k.mu.Lock()
	defer k.mu.Unlock()

	deadline := k.tick + timeout
	for q.n == len(q.buf) {
		if !q.waitLocked(timeout, deadline) {
			return false
		}
	}
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
	k.cond.Broadcast()
	return true
}

// Recv dequeues one value. Timeout semantics match Send; the demo's
// consumer passes Forever and suspends until the producer sends.
func (q *Queue) Recv(timeout uint64) (uint32, bool) {
	k := q.k
	k.mu.Lock()
	defer k.mu.Unlock()

	deadline := k.tick + timeout
	for q.n == 0 {
		if !q.waitLocked(timeout, deadline) {
			return 0, false
		}
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	k.cond.Broadcast()
	return v, true
}

// Len reports the number of queued values.
func (q *Queue) Len() int {
	q.k.mu.Lock()
	defer q.k.mu.Unlock()
	return q.n
}

// Cap reports the queue capacity.
func (q *Queue) Cap() int { return len(q.buf) }

// waitLocked parks the caller until something changes, or reports false
// when the wait cannot succeed (zero timeout, expired deadline, kernel
// stopping). Caller holds k.mu and rechecks its predicate on true.
func (q *Queue) waitLocked(timeout, deadline uint64) bool {
	if q.k.stopped || timeout == 0 {
		return false
	}
	if timeout != Forever && q.k.tick >= deadline {
		return false
	}
	q.k.cond.Wait()
	return true
}
