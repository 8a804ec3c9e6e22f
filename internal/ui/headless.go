package ui

import (
	"context"
	"time"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// headless drives the machine without presenting its display, useful
// for running test programs.
type headless struct {
	logger *log.Logger
}

func newHeadless(logger *log.Logger) *headless {
	return &headless{
		logger: logger,
	}
}

func (h *headless) Run(ctx context.Context, machine *chip8.Machine) error {
	ticker := time.NewTicker(tickStep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			if err := machine.Advance(now); err != nil {
				return err
			}
			if machine.Halted() {
				h.logger.Info("Machine halted")
				return nil
			}
		}
	}
}
