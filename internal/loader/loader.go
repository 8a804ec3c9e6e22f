// Package loader handles program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyProgram is returned when the program file contains no data.
var ErrEmptyProgram = errors.New("program file is empty")

// Load reads a CHIP-8 program image from disk and validates that it
// fits into the program region of memory. Program files are raw
// binary, there is no header to parse.
func Load(logger *log.Logger, filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyProgram, filename)
	}
	if len(data) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("%w: %s has %d bytes, the program region holds %d",
			chip8.ErrProgramTooLarge, filename, len(data), chip8.MaxProgramSize)
	}

	logger.Debug("Program file loaded",
		log.String("file", filename),
		log.Int("size", len(data)))

	return data, nil
}
