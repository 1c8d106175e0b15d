//go:build tinygo

package hal

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ws2812"
)

type tinyGoHAL struct {
	logger *uartLogger
	leds   *ws2812Bank
	intc   *tinyGoIntc
	t      *tinyGoTime
}

// New returns the hardware HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// RGB indicator: WS2812 chain on GP16, one pixel.
//
// TinyGo exposes a single application core to Go code, so NumCores
// reports 1 and the boot protocol degenerates to the primary-only path.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	rgbPin := machine.GP16
	rgbPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	onboard := machine.LED
	onboard.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		leds:   newWS2812Bank(ws2812.New(rgbPin), onboard),
		intc:   &tinyGoIntc{},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }

func (h *tinyGoHAL) LEDs() LEDBank { return h.leds }

func (h *tinyGoHAL) Time() Time { return h.t }

func (h *tinyGoHAL) NumCores() int { return 1 }

func (h *tinyGoHAL) InterruptController(core int) InterruptController {
	if core != 0 {
		return nil
	}
	return h.intc
}

// PinThread is a no-op on hardware; tasks already run on the one core.
func PinThread(cpu int) error {
	_ = cpu
	return nil
}

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// ws2812Bank maps the red/green/blue indicators onto one WS2812 pixel.
// The onboard pin LED mirrors the green channel so the blink is visible
// on boards without the RGB chain attached.
type ws2812Bank struct {
	dev     ws2812.Device
	onboard machine.Pin
	state   [3]bool
}

var bankColors = [3]string{LEDRed, LEDGreen, LEDBlue}

func newWS2812Bank(dev ws2812.Device, onboard machine.Pin) *ws2812Bank {
	return &ws2812Bank{dev: dev, onboard: onboard}
}

func (b *ws2812Bank) Get(color string) LED {
	for i, c := range bankColors {
		if c == color {
			return &ws2812LED{bank: b, idx: i}
		}
	}
	return nil
}

func (b *ws2812Bank) Enable(color string) error {
	if b.Get(color) == nil {
		return ErrNotImplemented
	}
	return nil
}

func (b *ws2812Bank) Colors() []string {
	return []string{LEDRed, LEDGreen, LEDBlue}
}

func (b *ws2812Bank) flush() {
	px := color.RGBA{}
	if b.state[0] {
		px.R = 0x40
	}
	if b.state[1] {
		px.G = 0x40
	}
	if b.state[2] {
		px.B = 0x40
	}
	b.dev.WriteColors([]color.RGBA{px})
	b.onboard.Set(b.state[1])
}

type ws2812LED struct {
	bank *ws2812Bank
	idx  int
}

func (l *ws2812LED) High() {
	l.bank.state[l.idx] = true
	l.bank.flush()
}

func (l *ws2812LED) Low() {
	l.bank.state[l.idx] = false
	l.bank.flush()
}

// tinyGoIntc tracks interrupt enable state for the fault path. Actual
// interrupt routing stays inside the TinyGo runtime.
type tinyGoIntc struct {
	inited      bool
	disabledAll bool
}

func (ic *tinyGoIntc) Init() error {
	ic.inited = true
	ic.disabledAll = false
	return nil
}

func (ic *tinyGoIntc) Enable(line int) error {
	_ = line
	if !ic.inited {
		return ErrNotImplemented
	}
	return nil
}

func (ic *tinyGoIntc) DisableAll() {
	ic.disabledAll = true
}

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }
