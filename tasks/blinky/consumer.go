package blinky

import (
	"ember/hal"
	"ember/kernel"
)

// Consumer waits indefinitely for values and validates each one. The
// expected value blinks the LED and logs a pass line; anything else logs
// a fail line and takes no hardware action. A mismatch signals a logic
// error elsewhere but corrupts nothing here, so the loop continues.
type Consumer struct {
	Queue  *kernel.Queue
	LED    hal.LED // may be nil
	Logger hal.Logger
}

// Diagnostic lines emitted per received value.
const (
	PassMessage = "Blink"
	FailMessage = "Unexpected value received"
)

// Run is the consumer task entry routine.
func (c *Consumer) Run(ctx *kernel.Context) {
	for {
		v, ok := c.Queue.Recv(kernel.Forever)
		if !ok {
			return
		}

		if v == SendValue {
			if c.Logger != nil {
				c.Logger.WriteLineString(PassMessage)
			}
			if c.LED != nil {
				c.LED.Low()
			}
		} else {
			if c.Logger != nil {
				c.Logger.WriteLineString(FailMessage)
			}
		}
	}
}
