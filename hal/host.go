//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig tunes the host simulation backend.
type HostConfig struct {
	// Cores is the simulated core count (default 2).
	Cores int
	// LogWriter receives diagnostic lines (default os.Stdout).
	LogWriter io.Writer
	// QuietLEDs suppresses LED transition log lines.
	QuietLEDs bool
}

type hostHAL struct {
	logger *hostLogger
	leds   *hostLEDBank
	intcs  []*hostIntc
	t      *hostTime
	cores  int
}

// New returns a host HAL with the default configuration.
func New() HAL {
	return NewWithConfig(HostConfig{})
}

// NewWithConfig returns a host HAL implementation.
func NewWithConfig(cfg HostConfig) HAL {
	if cfg.Cores <= 0 {
		cfg.Cores = 2
	}
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stdout
	}

	logger := &hostLogger{w: cfg.LogWriter}
	var ledLog *hostLogger
	if !cfg.QuietLEDs {
		ledLog = logger
	}
	leds := newHostLEDBank(ledLog, LEDRed, LEDGreen, LEDBlue)

	intcs := make([]*hostIntc, cfg.Cores)
	for i := range intcs {
		intcs[i] = &hostIntc{core: i}
	}

	return &hostHAL{
		logger: logger,
		leds:   leds,
		intcs:  intcs,
		t:      newHostTime(),
		cores:  cfg.Cores,
	}
}

func (h *hostHAL) Logger() Logger { return h.logger }

func (h *hostHAL) LEDs() LEDBank { return h.leds }

func (h *hostHAL) Time() Time { return h.t }

func (h *hostHAL) NumCores() int { return h.cores }

func (h *hostHAL) InterruptController(core int) InterruptController {
	if core < 0 || core >= len(h.intcs) {
		return nil
	}
	return h.intcs[core]
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	color  string
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	changed := l.on != on
	l.on = on
	l.mu.Unlock()
	if changed && l.logger != nil {
		state := "LOW"
		if on {
			state = "HIGH"
		}
		l.logger.WriteLineString("led " + l.color + ": " + state)
	}
}

func (l *hostLED) lit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

type hostLEDBank struct {
	mu      sync.Mutex
	order   []string
	leds    map[string]*hostLED
	enabled map[string]bool
}

func newHostLEDBank(logger *hostLogger, colors ...string) *hostLEDBank {
	b := &hostLEDBank{
		order:   colors,
		leds:    make(map[string]*hostLED, len(colors)),
		enabled: make(map[string]bool, len(colors)),
	}
	for _, c := range colors {
		b.leds[c] = &hostLED{color: c, logger: logger}
	}
	return b
}

func (b *hostLEDBank) Get(color string) LED {
	b.mu.Lock()
	defer b.mu.Unlock()
	led, ok := b.leds[color]
	if !ok {
		return nil
	}
	return led
}

func (b *hostLEDBank) Enable(color string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.leds[color]; !ok {
		return fmt.Errorf("led: no %s LED", color)
	}
	b.enabled[color] = true
	return nil
}

func (b *hostLEDBank) Colors() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Snapshot reports each LED's lit state, for the front panel and tests.
func (b *hostLEDBank) Snapshot() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(b.leds))
	for c, led := range b.leds {
		out[c] = led.lit()
	}
	return out
}

type hostIntc struct {
	mu          sync.Mutex
	core        int
	inited      bool
	enabled     map[int]bool
	disabledAll bool
}

func (ic *hostIntc) Init() error {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.inited = true
	ic.enabled = make(map[int]bool)
	ic.disabledAll = false
	return nil
}

func (ic *hostIntc) Enable(line int) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.inited {
		return fmt.Errorf("intc core %d: not initialized", ic.core)
	}
	ic.enabled[line] = true
	return nil
}

func (ic *hostIntc) DisableAll() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.enabled = map[int]bool{}
	ic.disabledAll = true
}

func (ic *hostIntc) interruptsOff() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.disabledAll
}
