package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tm "github.com/buger/goterm"
	"github.com/retroenv/chip8go/internal/chip8"
	"golang.org/x/term"
)

// keyHoldDuration is how long a received key stays pressed, raw
// terminals deliver no key release events.
const keyHoldDuration = 100 * time.Millisecond

// terminal renders the display as text cells on a raw mode terminal.
type terminal struct{}

func newTerminal() *terminal {
	return &terminal{}
}

func (t *terminal) Run(ctx context.Context, machine *chip8.Machine) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering terminal raw mode: %w", err)
	}
	defer func() {
		tm.MoveCursor(1, chip8.DisplayHeight+2)
		tm.Flush()
		_ = term.Restore(fd, oldState)
	}()

	keys := make(chan byte, 8)
	go readKeys(keys)

	dirty := true
	machine.RegisterNotifier(chip8.NotifierFunc(func(chip8.Notice) {
		dirty = true
	}))

	tm.Clear()

	ticker := time.NewTicker(tickStep)
	defer ticker.Stop()

	var held uint8
	var heldUntil time.Time
	keyDown := false
	paused := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case b := <-keys:
			switch b {
			case 0x03, 0x1b: // ctrl-c, escape
				return nil

			case 'p':
				paused = !paused
				dirty = true

			default:
				key, ok := terminalKey(b)
				if !ok {
					break
				}
				if keyDown && key != held {
					machine.KeyUp(held)
				}
				machine.KeyDown(key)
				held = key
				heldUntil = time.Now().Add(keyHoldDuration)
				keyDown = true
			}

		case now := <-ticker.C:
			if keyDown && now.After(heldUntil) {
				machine.KeyUp(held)
				keyDown = false
			}
			if !paused {
				if err := machine.AdvanceBy(tickStep); err != nil {
					return err
				}
			}
			if dirty {
				t.render(machine, paused)
				dirty = false
			}
		}
	}
}

// render repaints the full display, every cell gets written so no
// screen clearing is needed between frames.
func (t *terminal) render(machine *chip8.Machine, paused bool) {
	var row strings.Builder

	for y := range chip8.DisplayHeight {
		row.Reset()
		for x := range chip8.DisplayWidth {
			if machine.Pixel(x, y) {
				row.WriteString("██")
			} else {
				row.WriteString("  ")
			}
		}

		tm.MoveCursor(1, y+1)
		tm.Print(row.String())
	}

	status := "esc quits, p pauses"
	if paused {
		status = "paused, p resumes  "
	}
	if machine.SoundActive() {
		status += "  * BEEP *"
	} else {
		status += "          "
	}

	tm.MoveCursor(1, chip8.DisplayHeight+1)
	tm.Print(status)
	tm.Flush()
}

// readKeys feeds stdin bytes into the channel, the goroutine ends with
// the process once stdin closes.
func readKeys(keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}
