// Package app wires the demo together: it creates the shared boot state,
// launches one entry routine per core, feeds the HAL timebase into the
// kernel, and owns the hardware setup the primary core performs.
package app

import (
	"context"
	"fmt"

	"ember/boot"
	"ember/fault"
	"ember/hal"
	"ember/kernel"
	"ember/tasks/blinky"
)

const primaryCore = 0

// Interrupt line the demo enables after the rendezvous.
const demoInterruptLine = 0

// Config tunes the demo.
type Config struct {
	// PeriodTicks is the producer period (0 = blinky.DefaultPeriodTicks).
	PeriodTicks uint64
	// HeapBytes is the kernel heap budget (0 = kernel.DefaultHeapBytes).
	HeapBytes int
	// PinCores binds each simulated core's OS thread to one CPU.
	PinCores bool
}

// System is one running instance of the demo.
type System struct {
	h     hal.HAL
	cfg   Config
	state *boot.State
	kern  *kernel.Kernel
	sinks []*fault.Sink
}

// New starts the demo with the default config. The returned step function
// is polled by the host runners and reports a core fault as an error.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// NewWithConfig starts the demo.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	// On hardware nothing cancels this context: parked cores park forever
	// and the scheduler never returns, matching the bring-up contract.
	sys, err := newSystem(context.Background(), h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return sys.step
}

// Run starts the demo and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func newSystem(ctx context.Context, h hal.HAL, cfg Config) (*System, error) {
	state, err := boot.NewState(h.NumCores())
	if err != nil {
		return nil, err
	}

	heap := cfg.HeapBytes
	if heap <= 0 {
		heap = kernel.DefaultHeapBytes
	}

	sys := &System{
		h:     h,
		cfg:   cfg,
		state: state,
		kern:  kernel.NewWithHeap(heap),
	}

	red := h.LEDs().Get(hal.LEDRed)
	sys.sinks = make([]*fault.Sink, state.TotalCores())
	for i := range sys.sinks {
		sys.sinks[i] = fault.NewSink(fault.Config{
			Core:   i,
			Logger: h.Logger(),
			Intc:   h.InterruptController(i),
			Red:    red,
			Park:   func() { <-ctx.Done() },
		})
	}

	// Feed the HAL timebase into the kernel.
	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					sys.kern.TickTo(seq)
				}
			}()
		}
	}

	for id := 0; id < state.TotalCores(); id++ {
		id := id
		go func() {
			if cfg.PinCores {
				_ = hal.PinThread(id)
			}
			sys.Entry(ctx, id)
		}()
	}
	return sys, nil
}

// Entry is the per-core entry routine, invoked once per core by the
// runtime startup. Core 0 is the primary; every other core checks in and
// parks.
func (s *System) Entry(ctx context.Context, coreID int) {
	if coreID == primaryCore {
		s.primaryMain(ctx)
		return
	}
	s.secondaryMain(ctx, coreID)
}

func (s *System) secondaryMain(ctx context.Context, coreID int) {
	s.state.AwaitReady()
	if err := s.state.Checkin(); err != nil {
		s.sinks[coreID].Trip(fault.Fault{Kind: fault.KindBoot, Msg: err.Error()})
		return
	}
	s.log("Other Hart Init")

	// Permanent low-power wait; nothing else runs on this core.
	<-ctx.Done()
}

func (s *System) primaryMain(ctx context.Context) {
	sink := s.sinks[primaryCore]

	if err := s.state.SignalReady(); err != nil {
		s.log("Failed to initialize boot lock")
		sink.Trip(fault.Fault{Kind: fault.KindBoot, Msg: err.Error()})
		return
	}

	if !s.setupHardware(sink) {
		return
	}
	s.log("Multicore start after other core init OK")

	s.kern.SetHooks(kernel.Hooks{
		AllocFailed: func(what string) {
			sink.Trip(fault.Fault{Kind: fault.KindAllocFailed, Msg: what})
		},
		StackOverflow: func(task string) {
			sink.Trip(fault.Fault{Kind: fault.KindStackOverflow, Task: task})
		},
	})

	queue, err := s.kern.NewQueue(1)
	if err != nil {
		// The alloc-failed hook already tripped the sink.
		return
	}

	green := s.h.LEDs().Get(hal.LEDGreen)
	consumer := &blinky.Consumer{Queue: queue, LED: green, Logger: s.h.Logger()}
	producer := &blinky.Producer{Queue: queue, LED: green, Period: s.cfg.PeriodTicks, Sink: sink}

	// The consumer outranks the producer so every value is drained before
	// the producer's next cycle; with capacity 1 the producer never sees
	// a full queue.
	if err := s.kern.Spawn(kernel.TaskConfig{Name: blinky.ConsumerName, Priority: kernel.PriorityHigh}, consumer.Run); err != nil {
		return
	}
	if err := s.kern.Spawn(kernel.TaskConfig{Name: blinky.ProducerName, Priority: kernel.PriorityLow}, producer.Run); err != nil {
		return
	}

	// Blocks for the life of the system; an early ErrOutOfHeap return
	// means the idle task could not be allocated and the hook above has
	// already tripped the sink.
	_ = s.kern.Start(ctx)
}

func (s *System) setupHardware(sink *fault.Sink) bool {
	if err := s.state.Checkin(); err != nil {
		sink.Trip(fault.Fault{Kind: fault.KindBoot, Msg: err.Error()})
		return false
	}
	s.state.AwaitAllCheckins()

	intc := s.h.InterruptController(primaryCore)
	if intc == nil {
		s.log("No External controller")
		sink.Trip(fault.Fault{Kind: fault.KindBoot, Msg: "no interrupt controller for primary core"})
		return false
	}
	if err := intc.Init(); err != nil {
		sink.Trip(fault.Fault{Kind: fault.KindBoot, Msg: err.Error()})
		return false
	}
	if err := intc.Enable(demoInterruptLine); err != nil {
		sink.Trip(fault.Fault{Kind: fault.KindBoot, Msg: err.Error()})
		return false
	}

	leds := s.h.LEDs()
	missing := false
	for _, color := range []string{hal.LEDRed, hal.LEDGreen, hal.LEDBlue} {
		led := leds.Get(color)
		if led == nil {
			missing = true
			continue
		}
		_ = leds.Enable(color)
		led.Low()
	}
	if missing {
		s.log("At least one of LEDs is null")
	}
	return true
}

// step surfaces the first fault to the simulator runner. On hardware each
// core halts independently; the simulator ends the run instead so the
// failure is visible.
func (s *System) step() error {
	for i, sink := range s.sinks {
		if sink.State() == fault.Faulted {
			f := sink.Fault()
			return fmt.Errorf("core %d faulted: %s: %s", i, f.Kind, f.Msg)
		}
	}
	return nil
}

func (s *System) log(msg string) {
	if l := s.h.Logger(); l != nil {
		l.WriteLineString(msg)
	}
}
