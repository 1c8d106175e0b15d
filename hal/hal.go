package hal

import "errors"

// Logger writes newline-delimited diagnostic lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

// Indicator LED colors present on the reference board.
const (
	LEDRed   = "red"
	LEDGreen = "green"
	LEDBlue  = "blue"
)

// LEDBank looks up indicator LEDs by color name.
//
// Get returns nil when the board has no LED of that color. Callers must
// tolerate nil: a missing indicator never blocks a code path.
type LEDBank interface {
	Get(color string) LED
	Enable(color string) error
	Colors() []string
}

// InterruptController models one core's interrupt controller.
type InterruptController interface {
	Init() error
	Enable(line int) error
	DisableAll()
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; timers and deadlines live in the
// kernel, keyed on tick counts.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the only contact point between the demo and the hardware.
//
// InterruptController returns nil for an unknown core; boot treats that as
// a fatal misconfiguration.
type HAL interface {
	Logger() Logger
	LEDs() LEDBank
	InterruptController(core int) InterruptController
	Time() Time
	NumCores() int
}

var ErrNotImplemented = errors.New("not implemented")
