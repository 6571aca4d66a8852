//go:build !tinygo && cgo

package hal

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"displaywriter/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	cellW   = 56
	cellH   = 40
	cellPad = 4
	header  = 24
)

// WindowConfig controls the simulator window.
type WindowConfig struct {
	// TPS is the scan rate; ebiten runs one step per tick.
	TPS int
	// PressVoltage is injected at the position under the mouse.
	PressVoltage uint16
	// Label returns the text of a cell. Nil labels cells with nothing.
	Label func(row, col int) string
	// Held reports whether the key at row, col is currently held.
	Held func(row, col int) bool
}

// RunWindow opens a window that draws the simulated matrix. Holding the left
// mouse button over a cell presses it; the right button latches a press.
// It blocks until the window closes or a step returns io.EOF.
func RunWindow(hcfg HostConfig, wcfg WindowConfig, newApp Stepper) error {
	h, err := New(hcfg)
	if err != nil {
		return err
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}
	if wcfg.TPS <= 0 {
		wcfg.TPS = 60
	}
	if wcfg.PressVoltage == 0 {
		wcfg.PressVoltage = SampleMax / 2
	}

	g := &hostGame{
		h:       h,
		cfg:     wcfg,
		step:    step,
		latched: make([]bool, hcfg.Rows*hcfg.Columns),
		hover:   -1,
	}
	ebiten.SetWindowTitle("Displaywriter (" + buildinfo.Short() + ")")
	w, ht := g.size()
	ebiten.SetWindowSize(w*2, ht*2)
	ebiten.SetTPS(wcfg.TPS)
	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h       *Sim
	cfg     WindowConfig
	step    func() error
	latched []bool
	hover   int
}

func (g *hostGame) size() (int, int) {
	m := g.h.Matrix()
	return m.cols*cellW + cellPad, m.rows*cellH + header + cellPad
}

// cellAt maps window coordinates to a position, or -1.
func (g *hostGame) cellAt(x, y int) int {
	m := g.h.Matrix()
	if x < cellPad || y < header+cellPad {
		return -1
	}
	c := (x - cellPad) / cellW
	r := (y - header - cellPad) / cellH
	if c >= m.cols || r >= m.rows {
		return -1
	}
	return r*m.cols + c
}

func (g *hostGame) release(k int) {
	if k < 0 || g.latched[k] {
		return
	}
	m := g.h.Matrix()
	m.Set(k/m.cols, k%m.cols, 0)
}

func (g *hostGame) press(k int) {
	m := g.h.Matrix()
	m.Set(k/m.cols, k%m.cols, g.cfg.PressVoltage)
}

func (g *hostGame) pollMouse() {
	x, y := ebiten.CursorPosition()
	k := g.cellAt(x, y)

	if k >= 0 && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.latched[k] = !g.latched[k]
		if g.latched[k] {
			g.press(k)
		} else {
			g.release(k)
		}
	}

	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.release(g.hover)
		g.hover = -1
		return
	}
	if k != g.hover {
		g.release(g.hover)
		g.hover = k
	}
	if k >= 0 {
		g.press(k)
	}
}

func (g *hostGame) Update() error {
	g.pollMouse()
	if g.step == nil {
		return nil
	}
	if err := g.step(); err != nil {
		if errors.Is(err, io.EOF) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

var (
	colorBG      = color.RGBA{0x18, 0x18, 0x20, 0xFF}
	colorHeld    = color.RGBA{0x30, 0xC0, 0x50, 0xFF}
	colorLatched = color.RGBA{0xE0, 0xA0, 0x20, 0xFF}
	colorLEDOn   = color.RGBA{0xFF, 0x40, 0x30, 0xFF}
	colorLEDOff  = color.RGBA{0x50, 0x20, 0x20, 0xFF}
)

func (g *hostGame) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	m := g.h.Matrix()
	w, _ := g.size()

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%dx%d  pulses %d", m.rows, m.cols, m.Pulses()), cellPad, 4)
	led := colorLEDOff
	if g.h.LEDOn() {
		led = colorLEDOn
	}
	vector.DrawFilledCircle(screen, float32(w-14), 12, 6, led, true)

	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			x := float32(cellPad + c*cellW)
			y := float32(header + cellPad + r*cellH)
			v := m.Voltage(r, c)
			shade := uint8(0x30 + uint32(v)*0xA0/SampleMax)
			vector.DrawFilledRect(screen, x, y, cellW-cellPad, cellH-cellPad, color.RGBA{shade, shade, shade, 0xFF}, false)

			k := r*m.cols + c
			switch {
			case g.cfg.Held != nil && g.cfg.Held(r, c):
				vector.StrokeRect(screen, x+1, y+1, cellW-cellPad-2, cellH-cellPad-2, 3, colorHeld, false)
			case g.latched[k]:
				vector.StrokeRect(screen, x+1, y+1, cellW-cellPad-2, cellH-cellPad-2, 2, colorLatched, false)
			}

			if g.cfg.Label != nil {
				ebitenutil.DebugPrintAt(screen, g.cfg.Label(r, c), int(x)+4, int(y)+2)
			}
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d", v), int(x)+4, int(y)+18)
		}
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size()
}
