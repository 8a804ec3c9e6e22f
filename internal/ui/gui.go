package ui

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/chip8go/internal/chip8"
)

const (
	windowTitle = "chip8go"
	windowScale = 10
)

// gui presents the display in a window, scaling happens in ebiten
// based on the logical 64x32 layout.
type gui struct {
	ctx     context.Context
	machine *chip8.Machine

	frame  []byte // RGBA pixels of the logical display
	paused bool
	err    error
}

func newGUI() *gui {
	return &gui{
		frame: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
	}
}

func (g *gui) Run(ctx context.Context, machine *chip8.Machine) error {
	g.ctx = ctx
	g.machine = machine

	ebiten.SetWindowSize(chip8.DisplayWidth*windowScale, chip8.DisplayHeight*windowScale)
	ebiten.SetWindowTitle(windowTitle)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}

// Update runs at 60 ticks per second and advances the machine by one
// frame worth of cycles.
func (g *gui) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.err = err
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		if g.paused {
			ebiten.SetWindowTitle(windowTitle + " (paused)")
		} else {
			ebiten.SetWindowTitle(windowTitle)
		}
	}

	for key, pad := range keyMap {
		if ebiten.IsKeyPressed(key) {
			g.machine.KeyDown(pad)
		} else {
			g.machine.KeyUp(pad)
		}
	}

	if g.paused {
		return nil
	}

	if err := g.machine.AdvanceBy(tickStep); err != nil {
		g.err = err
		return ebiten.Termination
	}
	return nil
}

func (g *gui) Draw(screen *ebiten.Image) {
	i := 0
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			value := byte(0)
			if g.machine.Pixel(x, y) {
				value = 0xFF
			}
			g.frame[i] = value
			g.frame[i+1] = value
			g.frame[i+2] = value
			g.frame[i+3] = 0xFF
			i += 4
		}
	}
	screen.WritePixels(g.frame)
}

func (g *gui) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}
