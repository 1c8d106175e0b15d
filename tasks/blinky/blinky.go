// Package blinky holds the demo's task pair: a periodic producer that
// sends one value per period through a capacity-1 queue, and a blocking
// consumer that validates each value and blinks the indicator.
package blinky

// SendValue is the single message value the producer emits and the
// consumer expects.
const SendValue uint32 = 100

// DefaultPeriodTicks is the producer period (1 tick = 1ms on the
// reference timebase).
const DefaultPeriodTicks uint64 = 1000

// Task names, as reported in diagnostics.
const (
	ProducerName = "TX"
	ConsumerName = "RX"
)
