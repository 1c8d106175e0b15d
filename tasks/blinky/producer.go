package blinky

import (
	"ember/fault"
	"ember/hal"
	"ember/kernel"
)

// Producer emits SendValue once per period with drift-free timing.
//
// Each cycle drives the green LED high, sleeps until the absolute wake
// deadline, then sends with a zero timeout. The slot is empty by
// construction (the higher-priority consumer drains every value), so a
// full queue is an invariant violation and trips the fault sink rather
// than dropping data silently.
type Producer struct {
	Queue  *kernel.Queue
	LED    hal.LED // may be nil
	Period uint64
	Sink   *fault.Sink
}

// Run is the producer task entry routine.
func (p *Producer) Run(ctx *kernel.Context) {
	period := p.Period
	if period == 0 {
		period = DefaultPeriodTicks
	}

	// The wake deadline is initialized once and advanced by the period
	// each cycle; variable work between wakeups cannot accumulate drift.
	wake := ctx.Ticks()

	for {
		if p.LED != nil {
			p.LED.High()
		}

		if !ctx.DelayUntil(&wake, period) {
			return
		}

		if !p.Queue.Send(SendValue, 0) {
			fault.Assert(p.Sink, false, ctx.Name(), "queue full on send")
			return
		}
	}
}
