// Package disasm implements a tracing CHIP-8 disassembler.
//
// The disassembler follows the execution flow of a program image
// starting at its entry point: both paths of every skip instruction are
// traced, calls queue their target and continuation, plain jumps queue
// only their target. Bytes never reached by any trace are emitted as
// data directives, so sprite and table regions mixed into the code
// survive a round trip through an assembler.
package disasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/isa"
	"github.com/retroenv/chip8go/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
)

// ErrInvalidStartAddress is returned when the trace start address lies
// outside the loaded program image.
var ErrInvalidStartAddress = errors.New("start address is outside the program image")

// Disasm implements a disassembler for CHIP-8 program images.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	rom     []byte
	offsets []offsetInfo // one entry per program byte

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
	offsetsParsed       set.Set[uint16]

	branchDestinations set.Set[uint16] // addresses that are jumped or called to
	callDestinations   set.Set[uint16] // addresses that are called as subroutines
	dataDestinations   set.Set[uint16] // addresses loaded into the address register
}

// New creates a disassembler for a program image. The image is mapped
// to the program start address of the machine, the trace begins at the
// start address of the options.
func New(logger *log.Logger, rom []byte, opts options.Disassembler) (*Disasm, error) {
	if len(rom) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes exceed the %d byte program region",
			chip8.ErrProgramTooLarge, len(rom), chip8.MaxProgramSize)
	}

	last := chip8.ProgramStart + len(rom)
	if int(opts.StartAddress) < chip8.ProgramStart || int(opts.StartAddress) >= last {
		return nil, fmt.Errorf("%w: $%04X not in [$%04X, $%04X)",
			ErrInvalidStartAddress, opts.StartAddress, chip8.ProgramStart, last)
	}

	dis := &Disasm{
		logger:  logger,
		options: opts,

		rom:     rom,
		offsets: make([]offsetInfo, len(rom)),

		offsetsToParseAdded: set.New[uint16](),
		offsetsParsed:       set.New[uint16](),
		branchDestinations:  set.New[uint16](),
		callDestinations:    set.New[uint16](),
		dataDestinations:    set.New[uint16](),
	}
	return dis, nil
}

// Process traces the execution flow of the program image and writes
// the assembly listing.
func (dis *Disasm) Process(ctx context.Context, writer io.Writer) error {
	dis.offsets[dis.index(dis.options.StartAddress)].label = startLabel
	dis.addAddressToParse(dis.options.StartAddress)

	if err := dis.followExecutionFlow(ctx); err != nil {
		return err
	}

	dis.processJumpDestinations()
	dis.processDataDestinations()

	lines := dis.convertToListing()

	fileWriter := newFileWriter(writer, dis.options)
	if err := fileWriter.write(lines); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// followExecutionFlow parses all code offsets in the queue until it is
// empty, queueing newly discovered branch targets along the way.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("disassembly cancelled: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		if dis.offsetsParsed.Contains(address) {
			continue
		}
		dis.offsetsParsed.Add(address)

		dis.parseAddress(address)
	}
	return nil
}

// parseAddress decodes the instruction at the address and queues the
// addresses its execution can continue at.
func (dis *Disasm) parseAddress(address uint16) {
	index := dis.index(address)

	switch dis.offsets[index].typ {
	case offsetCode:
		return
	case offsetCodeParam:
		// the target points into the middle of an already parsed
		// instruction, demote the overlapped instruction to data
		dis.splitInstruction(address)
	}

	if int(index)+1 >= len(dis.rom) {
		dis.logger.Debug("Stopping execution flow at image end",
			log.Hex("address", address))
		return
	}

	opcode := uint16(dis.rom[index])<<8 | uint16(dis.rom[index+1])
	ins, ok := isa.Decode(opcode)
	if !ok {
		dis.logger.Debug("Stopping execution flow at unknown opcode",
			log.Hex("address", address),
			log.Hex("opcode", opcode))
		return
	}

	if dis.offsets[index+1].typ == offsetCode {
		// the second byte starts an already parsed instruction, treat
		// the overlapping byte as data to keep that instruction intact
		dis.logger.Debug("Stopping execution flow at instruction overlap",
			log.Hex("address", address))
		return
	}

	info := &dis.offsets[index]
	info.typ = offsetCode
	info.ins = ins
	info.opcode = opcode
	dis.offsets[index+1].typ = offsetCodeParam

	dis.followInstruction(ins, opcode, address)
}

// followInstruction queues the addresses at which execution can
// continue after the instruction.
func (dis *Disasm) followInstruction(ins *isa.Instruction, opcode uint16, address uint16) {
	next := address + isa.OpcodeSize

	switch ins {
	case isa.Jump:
		dis.addBranchDestination(isa.NNN(opcode))
		dis.addAddressToParse(isa.NNN(opcode))

	case isa.Call:
		target := isa.NNN(opcode)
		if dis.inImage(target) {
			dis.callDestinations.Add(target)
		}
		dis.addBranchDestination(target)
		dis.addAddressToParse(target)
		dis.addAddressToParse(next)

	case isa.Return:
		// flow continues at the address popped from the caller's stack

	case isa.JumpV0:
		dis.logger.Debug("Stopping execution flow at computed jump",
			log.Hex("address", address))

	case isa.LoadIndex:
		if target := isa.NNN(opcode); dis.inImage(target) {
			dis.dataDestinations.Add(target)
		}
		dis.addAddressToParse(next)

	default:
		if isa.SkipInstructions.Contains(ins) {
			dis.addAddressToParse(next + isa.OpcodeSize)
		}
		dis.addAddressToParse(next)
	}
}

// splitInstruction demotes the instruction owning the byte before the
// address to a data byte, freeing the addressed byte to be parsed as
// code.
func (dis *Disasm) splitInstruction(address uint16) {
	index := dis.index(address)
	dis.offsets[index-1] = offsetInfo{typ: offsetData, label: dis.offsets[index-1].label}
	dis.offsets[index].typ = offsetUnvisited

	dis.logger.Debug("Splitting overlapped instruction",
		log.Hex("address", address-1))
}

// addAddressToParse queues an address for parsing if it lies inside
// the program image and has not been queued before.
func (dis *Disasm) addAddressToParse(address uint16) {
	if !dis.inImage(address) {
		dis.logger.Debug("Skipping address outside the program image",
			log.Hex("address", address))
		return
	}
	if dis.offsetsToParseAdded.Contains(address) {
		return
	}

	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// addBranchDestination records an address as a label candidate.
func (dis *Disasm) addBranchDestination(address uint16) {
	if !dis.inImage(address) {
		return
	}
	dis.branchDestinations.Add(address)
}

// processJumpDestinations assigns label names to all branch
// destinations that do not have one yet.
func (dis *Disasm) processJumpDestinations() {
	destinations := make([]uint16, 0, len(dis.branchDestinations))
	for address := range dis.branchDestinations {
		destinations = append(destinations, address)
	}
	slices.Sort(destinations)

	for _, address := range destinations {
		info := &dis.offsets[dis.index(address)]
		if info.label != "" {
			continue
		}

		if dis.callDestinations.Contains(address) {
			info.label = fmt.Sprintf(funcNaming, address)
		} else {
			info.label = fmt.Sprintf(labelNaming, address)
		}
	}
}

// processDataDestinations assigns label names to all addresses loaded
// into the address register that point at data.
func (dis *Disasm) processDataDestinations() {
	destinations := make([]uint16, 0, len(dis.dataDestinations))
	for address := range dis.dataDestinations {
		destinations = append(destinations, address)
	}
	slices.Sort(destinations)

	for _, address := range destinations {
		info := &dis.offsets[dis.index(address)]
		if info.typ == offsetCode || info.typ == offsetCodeParam {
			continue
		}
		if info.label == "" {
			info.label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// index converts a memory address into a program image index.
func (dis *Disasm) index(address uint16) uint16 {
	return address - chip8.ProgramStart
}

// inImage reports whether an address lies inside the program image.
func (dis *Disasm) inImage(address uint16) bool {
	return int(address) >= chip8.ProgramStart &&
		int(address) < chip8.ProgramStart+len(dis.rom)
}

// labelAt returns the label of an address or an empty string.
func (dis *Disasm) labelAt(address uint16) string {
	if !dis.inImage(address) {
		return ""
	}
	return dis.offsets[dis.index(address)].label
}
