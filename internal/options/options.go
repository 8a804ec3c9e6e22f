// Package options contains the program options of the tools.
package options

import (
	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/config"
)

// Program options shared by the command line tools.
type Program struct {
	Input  string
	Output string
	Batch  string

	Debug bool
	Quiet bool
}

// Emulator options.
type Emulator struct {
	CyclesPerSecond uint
	Video           config.VideoMode
	Mute            bool
}

// NewEmulator returns emulator options with default settings.
func NewEmulator() Emulator {
	return Emulator{
		CyclesPerSecond: chip8.DefaultCyclesPerSecond,
		Video:           config.VideoGUI,
	}
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	StartAddress uint16

	HexComments    bool
	OffsetComments bool
	ZeroBytes      bool
}

// NewDisassembler returns disassembler options with default settings.
func NewDisassembler() Disassembler {
	return Disassembler{
		StartAddress:   chip8.ProgramStart,
		HexComments:    true,
		OffsetComments: true,
	}
}
