package chip8

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/chip8go/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

const (
	// MemorySize is the total amount of addressable memory in bytes.
	MemorySize = 4096

	// ProgramStart is the memory address where program images are
	// loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the maximum size of a program image in bytes.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16

	// DefaultCyclesPerSecond is the default execution speed.
	DefaultCyclesPerSecond = 500

	// addressMask wraps memory accesses into the 12-bit address space.
	addressMask = 0x0FFF

	// timerRate is the decay frequency of both timers in Hz.
	timerRate = 60

	opcodeSize = isa.OpcodeSize
)

// Options configures a Machine.
type Options struct {
	// CyclesPerSecond is the number of instructions executed per second
	// of elapsed host time. 0 selects DefaultCyclesPerSecond.
	CyclesPerSecond uint

	// Rand returns one random byte per call for the RND instruction.
	// nil selects the math/rand/v2 generator.
	Rand func() byte
}

// Machine is a CHIP-8 virtual machine. It executes instructions only
// when the host drives it through Advance or AdvanceBy and performs no
// I/O of its own: hosts deliver key events through KeyDown and KeyUp
// and observe output through Pixel, SoundActive and registered
// notifiers.
type Machine struct {
	logger *log.Logger

	memory  [MemorySize]byte
	display Display
	keypad  Keypad
	stack   callStack

	v  [RegisterCount]uint8 // general purpose registers, VF doubles as flag
	i  uint16               // address register
	pc uint16

	delayTimer uint8
	soundTimer uint8

	dispatch  map[*isa.Instruction]opcodeHandler
	rand      func() byte
	notifiers []Notifier

	cyclesPerSecond uint64
	lastAdvance     time.Time
	cycleFraction   uint64 // unconsumed cycle budget in cycle-nanoseconds
	timerFraction   uint64 // unconsumed timer budget in tick-nanoseconds

	halted bool
	fault  error
}

// New creates a machine with the built-in font installed and the
// program counter at the program start address. The program region is
// empty until Load is called.
func New(logger *log.Logger, options Options) *Machine {
	if options.CyclesPerSecond == 0 {
		options.CyclesPerSecond = DefaultCyclesPerSecond
	}
	if options.Rand == nil {
		options.Rand = func() byte {
			return byte(rand.UintN(256))
		}
	}

	m := &Machine{
		logger:          logger,
		rand:            options.Rand,
		cyclesPerSecond: uint64(options.CyclesPerSecond),
	}
	m.dispatch = m.newDispatchTable()
	m.reset()
	return m
}

// RegisterNotifier adds an observer for display and sound notices.
func (m *Machine) RegisterNotifier(notifier Notifier) {
	m.notifiers = append(m.notifiers, notifier)
}

// Load resets the machine to its power-on state and copies the program
// image into memory at the program start address. Loading clears a
// halt or fault left behind by the previous program.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the %d byte program region",
			ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	m.reset()
	copy(m.memory[ProgramStart:], program)

	m.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Int("cycles_per_second", int(m.cyclesPerSecond)))
	return nil
}

// reset returns every component to its power-on state and installs the
// font at the base of memory.
func (m *Machine) reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[:], fontSet[:])

	m.display.Clear()
	m.keypad.Reset()
	m.stack.reset()

	m.v = [RegisterCount]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.delayTimer = 0
	m.soundTimer = 0

	m.lastAdvance = time.Time{}
	m.cycleFraction = 0
	m.timerFraction = 0

	m.halted = false
	m.fault = nil
}

// Advance runs the machine up to the given point in time. The first
// call after a load establishes the time base and executes nothing.
func (m *Machine) Advance(now time.Time) error {
	var elapsed time.Duration
	if !m.lastAdvance.IsZero() {
		elapsed = now.Sub(m.lastAdvance)
	}
	m.lastAdvance = now
	return m.AdvanceBy(elapsed)
}

// AdvanceBy executes the instructions due for an elapsed amount of
// host time and then decays the timers at 60 Hz. Durations too short
// for a full cycle or timer tick carry over to the next call. Once the
// machine is halted advancing is a no-op; once it has faulted the same
// error is returned again without executing.
func (m *Machine) AdvanceBy(elapsed time.Duration) error {
	if m.fault != nil {
		return m.fault
	}
	if m.halted {
		return nil
	}
	if elapsed < 0 {
		elapsed = 0
	}

	m.cycleFraction += uint64(elapsed) * m.cyclesPerSecond
	cycles := m.cycleFraction / uint64(time.Second)
	m.cycleFraction %= uint64(time.Second)

	for range cycles {
		if err := m.step(); err != nil {
			m.fault = err
			return err
		}
		if m.halted {
			return nil
		}
	}

	m.decayTimers(elapsed)
	return nil
}

// step fetches, decodes and executes a single instruction.
func (m *Machine) step() error {
	opcode := m.fetch()

	ins, ok := isa.Decode(opcode)
	if !ok {
		return &OpcodeError{Address: m.pc, Opcode: opcode, Err: ErrUnknownOpcode}
	}

	m.logger.Debug("Executing instruction",
		log.Hex("address", m.pc),
		log.String("instruction", ins.Format(opcode)))

	if err := m.dispatch[ins](opcode); err != nil {
		return &OpcodeError{Address: m.pc, Opcode: opcode, Err: err}
	}
	return nil
}

// fetch reads the big-endian instruction word at the program counter.
func (m *Machine) fetch() uint16 {
	address := m.pc & addressMask
	high := m.memory[address]
	low := m.memory[(address+1)&addressMask]
	return uint16(high)<<8 | uint16(low)
}

// decayTimers applies 60 Hz decay to both timers, clamping at zero.
// The sound timer reaching zero emits the sound-off notice exactly
// once.
func (m *Machine) decayTimers(elapsed time.Duration) {
	m.timerFraction += uint64(elapsed) * timerRate
	ticks := m.timerFraction / uint64(time.Second)
	m.timerFraction %= uint64(time.Second)
	if ticks == 0 {
		return
	}

	if uint64(m.delayTimer) > ticks {
		m.delayTimer -= uint8(ticks)
	} else {
		m.delayTimer = 0
	}

	if m.soundTimer == 0 {
		return
	}
	if uint64(m.soundTimer) > ticks {
		m.soundTimer -= uint8(ticks)
		return
	}

	m.soundTimer = 0
	m.notify(NoticeSoundOff)
}

// notify delivers a notice to all registered observers.
func (m *Machine) notify(notice Notice) {
	for _, notifier := range m.notifiers {
		notifier.Notify(notice)
	}
}

// KeyDown marks a keypad key as pressed. Indexes are masked to 0-15.
func (m *Machine) KeyDown(key uint8) {
	m.keypad.Press(key)
}

// KeyUp marks a keypad key as released. Indexes are masked to 0-15.
func (m *Machine) KeyUp(key uint8) {
	m.keypad.Release(key)
}

// Pixel reports whether the display pixel at the given coordinates is
// set.
func (m *Machine) Pixel(x, y int) bool {
	return m.display.Pixel(x, y)
}

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// Halted reports whether the machine stopped on a jump to its own
// address. Only a reload leaves the halted state.
func (m *Machine) Halted() bool {
	return m.halted
}
