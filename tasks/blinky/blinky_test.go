package blinky

import (
	"context"
	"sync"
	"testing"
	"time"

	"ember/fault"
	"ember/kernel"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLogger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

type fakeLED struct {
	mu    sync.Mutex
	highs int
	lows  int
	// highSeen receives one token per High so tests can synchronize with
	// the producer's cycle.
	highSeen chan struct{}
}

func (l *fakeLED) High() {
	l.mu.Lock()
	l.highs++
	l.mu.Unlock()
	if l.highSeen != nil {
		select {
		case l.highSeen <- struct{}{}:
		default:
		}
	}
}

func (l *fakeLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lows++
}

func (l *fakeLED) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.highs, l.lows
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// recvSoon polls the queue until a value arrives.
func recvSoon(t *testing.T, q *kernel.Queue) uint32 {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := q.Recv(0); ok {
			return v
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a queued value")
	return 0
}

func TestProducerSendsOncePerPeriod(t *testing.T) {
	k := kernel.New()
	q, err := k.NewQueue(1)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	sink := fault.NewSink(fault.Config{Park: func() {}})
	led := &fakeLED{highSeen: make(chan struct{}, 1)}
	p := &Producer{Queue: q, LED: led, Period: 10, Sink: sink}

	if err := k.Spawn(kernel.TaskConfig{Name: ProducerName}, p.Run); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Start(ctx)

	// The first High happens after the wake base latches, so ticking is
	// safe once it is observed.
	select {
	case <-led.highSeen:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not start")
	}

	// Nothing may be sent before the first deadline.
	k.TickTo(9)
	time.Sleep(20 * time.Millisecond)
	if v, ok := q.Recv(0); ok {
		t.Fatalf("value %d sent before the first period elapsed", v)
	}

	k.TickTo(10)
	if v := recvSoon(t, q); v != SendValue {
		t.Fatalf("first send = %d, want %d", v, SendValue)
	}

	k.TickTo(20)
	if v := recvSoon(t, q); v != SendValue {
		t.Fatalf("second send = %d, want %d", v, SendValue)
	}

	if sink.State() != fault.Running {
		t.Fatalf("sink tripped: %+v", sink.Fault())
	}
	if highs, _ := led.counts(); highs < 2 {
		t.Fatalf("LED highs = %d, want at least 2", highs)
	}
}

func TestProducerTripsOnFullQueue(t *testing.T) {
	k := kernel.New()
	q, err := k.NewQueue(1)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	// Occupy the single slot so the send must fail.
	if !q.Send(1, 0) {
		t.Fatal("priming Send failed")
	}

	sink := fault.NewSink(fault.Config{Park: func() {}})
	led := &fakeLED{highSeen: make(chan struct{}, 1)}
	p := &Producer{Queue: q, LED: led, Period: 5, Sink: sink}

	if err := k.Spawn(kernel.TaskConfig{Name: ProducerName}, p.Run); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Start(ctx)

	select {
	case <-led.highSeen:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not start")
	}
	k.TickTo(5)

	waitFor(t, "sink to trip", func() bool { return sink.State() == fault.Faulted })
	f := sink.Fault()
	if f.Kind != fault.KindAssert || f.Task != ProducerName {
		t.Fatalf("Fault() = %+v", f)
	}
}

func TestConsumerValidatesValues(t *testing.T) {
	k := kernel.New()
	q, err := k.NewQueue(4)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	log := &fakeLogger{}
	led := &fakeLED{}
	c := &Consumer{Queue: q, LED: led, Logger: log}

	if err := k.Spawn(kernel.TaskConfig{Name: ConsumerName, Priority: kernel.PriorityHigh}, c.Run); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.Start(ctx)

	for _, v := range []uint32{SendValue, 0, 4294967295, SendValue} {
		if !q.Send(v, 0) {
			t.Fatalf("Send(%d) failed", v)
		}
	}

	waitFor(t, "four diagnostic lines", func() bool { return len(log.snapshot()) == 4 })
	want := []string{PassMessage, FailMessage, FailMessage, PassMessage}
	lines := log.snapshot()
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	// Only the expected value drives the LED.
	if _, lows := led.counts(); lows != 2 {
		t.Fatalf("LED lows = %d, want 2", lows)
	}
}

func TestConsumerStopsWithKernel(t *testing.T) {
	k := kernel.New()
	q, err := k.NewQueue(1)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	c := &Consumer{Queue: q}

	done := make(chan struct{})
	err = k.Spawn(kernel.TaskConfig{Name: ConsumerName}, func(ctx *kernel.Context) {
		c.Run(ctx)
		close(done)
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go k.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not return after the kernel stopped")
	}
}
