//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"tinygo.org/x/tinyfont"

	"ember/internal/buildinfo"
)

// Front panel geometry.
const (
	panelWidth  = 192
	panelHeight = 96
	panelScale  = 3
)

// RunWindow opens a desktop front panel that mirrors the board's indicator
// LEDs. It blocks until the window closes or the step function fails.
func RunWindow(newApp func(HAL) func() error, cfg HostConfig) error {
	h := NewWithConfig(cfg).(*hostHAL)
	step := newApp(h)

	g := &panelGame{h: h, step: step}
	ebiten.SetWindowTitle("ember (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(panelWidth*panelScale, panelHeight*panelScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type panelGame struct {
	h     *hostHAL
	step  func() error
	panel *panelSurface
	img   *ebiten.Image
}

func (g *panelGame) Update() error {
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	if g.panel == nil {
		g.panel = newPanelSurface(panelWidth, panelHeight)
		g.img = ebiten.NewImage(panelWidth, panelHeight)
	}

	g.panel.clear(color.RGBA{R: 0x10, G: 0x12, B: 0x14, A: 0xFF})

	states := g.h.leds.Snapshot()
	colors := g.h.leds.Colors()
	x := int16(12)
	for _, name := range colors {
		swatch := swatchColor(name, states[name])
		g.panel.fillRect(int(x), 24, 32, 32, swatch)
		tinyfont.WriteLine(g.panel, &tinyfont.TomThumb, x, 72, name, color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF})
		x += 56
	}
	tinyfont.WriteLine(g.panel, &tinyfont.TomThumb, 12, 12, "ember front panel", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	g.img.WritePixels(g.panel.img.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return panelWidth, panelHeight
}

func swatchColor(name string, lit bool) color.RGBA {
	var c color.RGBA
	switch name {
	case LEDRed:
		c = color.RGBA{R: 0xE0, A: 0xFF}
	case LEDGreen:
		c = color.RGBA{G: 0xE0, A: 0xFF}
	case LEDBlue:
		c = color.RGBA{B: 0xE0, A: 0xFF}
	default:
		c = color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}
	}
	if !lit {
		c.R /= 6
		c.G /= 6
		c.B /= 6
		c.A = 0xFF
	}
	return c
}

// panelSurface is a tinyfont drawing target backed by an RGBA image.
type panelSurface struct {
	img *image.RGBA
	w   int
	h   int
}

func newPanelSurface(w, h int) *panelSurface {
	return &panelSurface{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

func (s *panelSurface) Size() (x, y int16) {
	return int16(s.w), int16(s.h)
}

func (s *panelSurface) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= s.w || int(y) >= s.h {
		return
	}
	s.img.SetRGBA(int(x), int(y), c)
}

func (s *panelSurface) Display() error { return nil }

func (s *panelSurface) clear(c color.RGBA) {
	s.fillRect(0, 0, s.w, s.h, c)
}

func (s *panelSurface) fillRect(x, y, w, h int, c color.RGBA) {
	x1 := clampInt(x+w, 0, s.w)
	y1 := clampInt(y+h, 0, s.h)
	for py := clampInt(y, 0, s.h); py < y1; py++ {
		for px := clampInt(x, 0, s.w); px < x1; px++ {
			s.img.SetRGBA(px, py, c)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
