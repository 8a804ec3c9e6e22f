// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/chip8go/internal/config"
	"github.com/retroenv/chip8go/internal/options"
)

const (
	emulatorUsage = "chip8go [options] <program file>"
	disasmUsage   = "chip8godisasm [options] <file to disassemble>"
)

// ParseEmulatorFlags parses command line flags and returns program and
// emulator options
func ParseEmulatorFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	var opts options.Program
	readProgramFlags(flags, &opts)

	emuOptions := options.NewEmulator()
	var video string
	flags.UintVar(&emuOptions.CyclesPerSecond, "speed", emuOptions.CyclesPerSecond,
		"instructions to execute per second")
	flags.StringVar(&video, "video", string(emuOptions.Video),
		"video output to use (gui/terminal/none)")
	flags.BoolVar(&emuOptions.Mute, "mute", false, "disable sound output")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, emuOptions, &UsageError{flags: flags, usage: emulatorUsage}
	}

	if err := validateArgs(args); err != nil {
		return opts, emuOptions, err
	}
	opts.Input = args[0]

	mode, err := config.ParseVideoMode(video)
	if err != nil {
		return opts, emuOptions, &UsageError{flags: flags, usage: emulatorUsage, msg: err.Error()}
	}
	emuOptions.Video = mode

	if emuOptions.CyclesPerSecond == 0 {
		return opts, emuOptions, &UsageError{flags: flags, usage: emulatorUsage,
			msg: "execution speed must be greater than zero"}
	}

	return opts, emuOptions, nil
}

// ParseDisasmFlags parses command line flags and returns program and
// disassembler options
func ParseDisasmFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	var opts options.Program
	readProgramFlags(flags, &opts)
	flags.StringVar(&opts.Output, "o", "",
		"name of the output .asm file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "",
		"process a batch of given path and file mask and automatic .asm file naming, for example *.ch8")

	disasmOptions := options.NewDisassembler()
	var start string
	var noHexComments, noOffsets bool
	flags.StringVar(&start, "start", "",
		"start address of the execution trace, for example $200, 0x200 or 512")
	flags.BoolVar(&noHexComments, "nohexcomments", false,
		"do not output opcode bytes as hex values in comments")
	flags.BoolVar(&noOffsets, "nooffsets", false,
		"do not output offsets in comments")
	flags.BoolVar(&disasmOptions.ZeroBytes, "z", false,
		"output the trailing zero bytes")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, disasmOptions, &UsageError{flags: flags, usage: disasmUsage}
	}

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}
	if opts.Batch == "" {
		opts.Input = args[0]
	}

	disasmOptions.HexComments = !noHexComments
	disasmOptions.OffsetComments = !noOffsets

	if start != "" {
		address, err := parseAddress(start)
		if err != nil {
			return opts, disasmOptions, &UsageError{flags: flags, usage: disasmUsage, msg: err.Error()}
		}
		disasmOptions.StartAddress = address
	}

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}
	if e.usage != "" {
		fmt.Printf("usage: %s\n\n", e.usage)
	}
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the input file, please pass the input file as last argument", arg),
			}
		}
	}
	return nil
}

// readProgramFlags registers the flags shared by all tools.
func readProgramFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

// parseAddress parses a 16 bit address in decimal, $... or 0x... notation.
func parseAddress(s string) (uint16, error) {
	value := strings.TrimPrefix(s, "$")
	base := 10

	switch {
	case value != s:
		base = 16
	case strings.HasPrefix(strings.ToLower(value), "0x"):
		value = value[2:]
		base = 16
	}

	address, err := strconv.ParseUint(value, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s'", s)
	}
	return uint16(address), nil
}
