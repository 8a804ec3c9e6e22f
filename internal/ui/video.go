// Package ui provides the video and audio frontends of the emulator.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// tickStep is the frame duration that all frontends advance the
// machine by, display and timers run at 60 Hz.
const tickStep = time.Second / 60

// Video drives the machine and presents its display.
type Video interface {
	// Run drives the machine until the context gets cancelled, the
	// user quits or the machine faults.
	Run(ctx context.Context, machine *chip8.Machine) error
}

// New returns the video frontend for the given mode.
func New(mode config.VideoMode, logger *log.Logger) (Video, error) {
	switch mode {
	case config.VideoGUI:
		return newGUI(), nil

	case config.VideoTerminal:
		return newTerminal(), nil

	case config.VideoNone:
		return newHeadless(logger), nil

	default:
		return nil, fmt.Errorf("unsupported video mode: %s", mode)
	}
}
