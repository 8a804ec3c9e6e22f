package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	return New(log.NewTestLogger(t), Options{})
}

// runOpcode writes the opcode at the current program counter and
// executes it.
func runOpcode(t *testing.T, m *Machine, opcode uint16) {
	t.Helper()

	m.memory[m.pc&addressMask] = byte(opcode >> 8)
	m.memory[(m.pc+1)&addressMask] = byte(opcode)
	assert.NoError(t, m.step())
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t)
	m.display.Draw(0, 0, []byte{0xFF, 0xFF})

	runOpcode(t, m, 0x00E0)

	for y := range DisplayHeight {
		for x := range DisplayWidth {
			assert.False(t, m.Pixel(x, y), "pixel %d,%d is set", x, y)
		}
	}
	assert.Equal(t, uint16(ProgramStart+2), m.pc)
}

func TestCallAndReturn(t *testing.T) {
	m := newTestMachine(t)

	runOpcode(t, m, 0x2400)
	assert.Equal(t, uint16(0x400), m.pc)

	runOpcode(t, m, 0x00EE)
	assert.Equal(t, uint16(ProgramStart+2), m.pc, "return must resume after the call")
}

func TestCallStackOverflow(t *testing.T) {
	m := newTestMachine(t)

	// a call to its own address recurses without moving the program counter
	for range StackDepth {
		runOpcode(t, m, 0x2200)
	}

	m.memory[0x200] = 0x22
	m.memory[0x201] = 0x00
	err := m.step()
	assert.True(t, errors.Is(err, ErrStackOverflow))

	var opcodeErr *OpcodeError
	assert.True(t, errors.As(err, &opcodeErr))
	assert.Equal(t, uint16(0x200), opcodeErr.Address)
	assert.Equal(t, uint16(0x2200), opcodeErr.Opcode)
}

func TestReturnStackUnderflow(t *testing.T) {
	m := newTestMachine(t)

	m.memory[0x200] = 0x00
	m.memory[0x201] = 0xEE
	err := m.step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestJump(t *testing.T) {
	m := newTestMachine(t)

	runOpcode(t, m, 0x1ABC)

	assert.Equal(t, uint16(0xABC), m.pc)
	assert.False(t, m.Halted())
}

func TestJumpToOwnAddressHalts(t *testing.T) {
	m := newTestMachine(t)

	runOpcode(t, m, 0x1200)

	assert.Equal(t, uint16(0x200), m.pc)
	assert.True(t, m.Halted())
}

func TestJumpV0(t *testing.T) {
	m := newTestMachine(t)
	m.v[0] = 0x10

	runOpcode(t, m, 0xB300)

	assert.Equal(t, uint16(0x310), m.pc)
}

func TestSkipOpcodes(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		setup  func(m *Machine)
		skip   bool
	}{
		{"se byte taken", 0x3A42, func(m *Machine) { m.v[0xA] = 0x42 }, true},
		{"se byte not taken", 0x3A42, func(m *Machine) { m.v[0xA] = 0x41 }, false},
		{"sne byte taken", 0x4A42, func(m *Machine) { m.v[0xA] = 0x41 }, true},
		{"sne byte not taken", 0x4A42, func(m *Machine) { m.v[0xA] = 0x42 }, false},
		{"se register taken", 0x5AB0, func(m *Machine) { m.v[0xA], m.v[0xB] = 7, 7 }, true},
		{"se register not taken", 0x5AB0, func(m *Machine) { m.v[0xA], m.v[0xB] = 7, 8 }, false},
		{"sne register taken", 0x9AB0, func(m *Machine) { m.v[0xA], m.v[0xB] = 7, 8 }, true},
		{"sne register not taken", 0x9AB0, func(m *Machine) { m.v[0xA], m.v[0xB] = 7, 7 }, false},
		{"skp taken", 0xE59E, func(m *Machine) { m.v[5] = 0xC; m.KeyDown(0xC) }, true},
		{"skp not taken", 0xE59E, func(m *Machine) { m.v[5] = 0xC }, false},
		{"sknp taken", 0xE5A1, func(m *Machine) { m.v[5] = 0xC }, true},
		{"sknp not taken", 0xE5A1, func(m *Machine) { m.v[5] = 0xC; m.KeyDown(0xC) }, false},
		{"skp key index masked", 0xE59E, func(m *Machine) { m.v[5] = 0x1C; m.KeyDown(0xC) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			tt.setup(m)

			runOpcode(t, m, tt.opcode)

			want := uint16(ProgramStart + 2)
			if tt.skip {
				want = ProgramStart + 4
			}
			assert.Equal(t, want, m.pc)
		})
	}
}

func TestLoadByte(t *testing.T) {
	m := newTestMachine(t)

	runOpcode(t, m, 0x6C42)

	assert.Equal(t, uint8(0x42), m.v[0xC])
}

func TestAddByte(t *testing.T) {
	m := newTestMachine(t)
	m.v[3] = 0xFF
	m.v[0xF] = 0xAA

	runOpcode(t, m, 0x7302)

	assert.Equal(t, uint8(0x01), m.v[3], "addition must wrap around")
	assert.Equal(t, uint8(0xAA), m.v[0xF], "flag register must stay untouched")
}

func TestRegisterOpcodes(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx     uint8
		vy     uint8
		want   uint8
	}{
		{"ld", 0x8AB0, 0x00, 0x42, 0x42},
		{"or", 0x8AB1, 0x0F, 0xF0, 0xFF},
		{"and", 0x8AB2, 0x0F, 0xFF, 0x0F},
		{"xor", 0x8AB3, 0xFF, 0x0F, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[0xA] = tt.vx
			m.v[0xB] = tt.vy
			m.v[0xF] = 0xAA

			runOpcode(t, m, tt.opcode)

			assert.Equal(t, tt.want, m.v[0xA])
			assert.Equal(t, tt.vy, m.v[0xB], "source register must stay untouched")
			assert.Equal(t, uint8(0xAA), m.v[0xF], "flag register must stay untouched")
		})
	}
}

func TestAddRegister(t *testing.T) {
	tests := []struct {
		name     string
		vx       uint8
		vy       uint8
		want     uint8
		wantFlag uint8
	}{
		{"no carry", 0x10, 0x20, 0x30, 0},
		{"wrap around", 0xFF, 0x01, 0x00, 1},
		{"max values", 0xFF, 0xFF, 0xFE, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[1] = tt.vx
			m.v[2] = tt.vy

			runOpcode(t, m, 0x8124)

			assert.Equal(t, tt.want, m.v[1])
			assert.Equal(t, tt.wantFlag, m.v[0xF])
		})
	}
}

func TestAddRegisterFlagTarget(t *testing.T) {
	m := newTestMachine(t)
	m.v[0xF] = 0xFF
	m.v[1] = 0x01

	runOpcode(t, m, 0x8F14)

	assert.Equal(t, uint8(0x00), m.v[0xF], "result must win over the carry flag")
}

func TestSub(t *testing.T) {
	tests := []struct {
		name     string
		vx       uint8
		vy       uint8
		want     uint8
		wantFlag uint8
	}{
		{"no borrow", 0x05, 0x03, 0x02, 1},
		{"borrow", 0x01, 0x02, 0xFF, 0},
		{"equal values", 0x07, 0x07, 0x00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[0xA] = tt.vx
			m.v[0xB] = tt.vy

			runOpcode(t, m, 0x8AB5)

			assert.Equal(t, tt.want, m.v[0xA])
			assert.Equal(t, tt.wantFlag, m.v[0xF])
		})
	}
}

func TestSubN(t *testing.T) {
	tests := []struct {
		name     string
		vx       uint8
		vy       uint8
		want     uint8
		wantFlag uint8
	}{
		{"no borrow", 0x03, 0x05, 0x02, 1},
		{"borrow", 0x02, 0x01, 0xFF, 0},
		{"equal values", 0x07, 0x07, 0x00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[0xA] = tt.vx
			m.v[0xB] = tt.vy

			runOpcode(t, m, 0x8AB7)

			assert.Equal(t, tt.want, m.v[0xA])
			assert.Equal(t, tt.wantFlag, m.v[0xF])
		})
	}
}

func TestShiftRight(t *testing.T) {
	tests := []struct {
		name     string
		vx       uint8
		vy       uint8
		want     uint8
		wantFlag uint8
	}{
		{"flag from vx low bit", 0x01, 0x10, 0x08, 1},
		{"no flag", 0x02, 0x05, 0x02, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[0xA] = tt.vx
			m.v[0xB] = tt.vy

			runOpcode(t, m, 0x8AB6)

			assert.Equal(t, tt.want, m.v[0xA], "shifted source must be VY")
			assert.Equal(t, tt.wantFlag, m.v[0xF])
		})
	}
}

func TestShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		vx       uint8
		vy       uint8
		want     uint8
		wantFlag uint8
	}{
		{"flag from vx low bit", 0x01, 0x81, 0x02, 1},
		{"no flag", 0x10, 0x41, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[0xA] = tt.vx
			m.v[0xB] = tt.vy

			runOpcode(t, m, 0x8ABE)

			assert.Equal(t, tt.want, m.v[0xA], "shifted source must be VY")
			assert.Equal(t, tt.wantFlag, m.v[0xF])
		})
	}
}

func TestLoadIndex(t *testing.T) {
	m := newTestMachine(t)

	runOpcode(t, m, 0xA123)

	assert.Equal(t, uint16(0x123), m.i)
}

func TestAddIndex(t *testing.T) {
	m := newTestMachine(t)
	m.i = 0xFFF
	m.v[4] = 0x02
	m.v[0xF] = 0xAA

	runOpcode(t, m, 0xF41E)

	assert.Equal(t, uint16(0x1001), m.i, "index addition must not wrap at 12 bit")
	assert.Equal(t, uint8(0xAA), m.v[0xF], "flag register must stay untouched")
}

func TestAddIndexWrapsAt16Bit(t *testing.T) {
	m := newTestMachine(t)
	m.i = 0xFFFF
	m.v[4] = 0x01

	runOpcode(t, m, 0xF41E)

	assert.Equal(t, uint16(0x0000), m.i)
}

func TestRandom(t *testing.T) {
	m := New(log.NewTestLogger(t), Options{Rand: func() byte { return 0xBD }})

	runOpcode(t, m, 0xC50F)

	assert.Equal(t, uint8(0x0D), m.v[5], "random byte must be masked with NN")
}

func TestDrawSetsPixelsAndDetectsCollision(t *testing.T) {
	m := newTestMachine(t)
	m.i = 0x300
	m.memory[0x300] = 0xFF

	runOpcode(t, m, 0xD011)
	for x := range 8 {
		assert.True(t, m.Pixel(x, 0), "pixel %d,0 is unset", x)
	}
	assert.Equal(t, uint8(0), m.v[0xF])

	// the identical blit erases the sprite and reports the overlap
	runOpcode(t, m, 0xD011)
	for x := range 8 {
		assert.False(t, m.Pixel(x, 0), "pixel %d,0 is set", x)
	}
	assert.Equal(t, uint8(1), m.v[0xF])
}

func TestDrawWrapsStartPosition(t *testing.T) {
	m := newTestMachine(t)
	m.i = 0x300
	m.memory[0x300] = 0x80
	m.v[0] = DisplayWidth + 6
	m.v[1] = DisplayHeight + 3

	runOpcode(t, m, 0xD011)

	assert.True(t, m.Pixel(6, 3))
}

func TestDrawEmitsDisplayNotice(t *testing.T) {
	m := newTestMachine(t)
	var notices []Notice
	m.RegisterNotifier(NotifierFunc(func(notice Notice) {
		notices = append(notices, notice)
	}))

	// a zero row sprite draws nothing but still notifies
	runOpcode(t, m, 0xD000)

	assert.Len(t, notices, 1)
	assert.Equal(t, NoticeDisplayUpdated, notices[0])
}

func TestDelayTimerOpcodes(t *testing.T) {
	m := newTestMachine(t)
	m.v[7] = 42

	runOpcode(t, m, 0xF715)
	assert.Equal(t, uint8(42), m.delayTimer)

	runOpcode(t, m, 0xF807)
	assert.Equal(t, uint8(42), m.v[8])
}

func TestSetSoundTimer(t *testing.T) {
	m := newTestMachine(t)
	var notices []Notice
	m.RegisterNotifier(NotifierFunc(func(notice Notice) {
		notices = append(notices, notice)
	}))

	runOpcode(t, m, 0xF618)
	assert.Empty(t, notices, "loading a zero value must not notify")
	assert.False(t, m.SoundActive())

	m.v[6] = 9
	runOpcode(t, m, 0xF618)
	assert.Len(t, notices, 1)
	assert.Equal(t, NoticeSoundOn, notices[0])
	assert.True(t, m.SoundActive())
}

func TestWaitKey(t *testing.T) {
	m := newTestMachine(t)

	m.memory[0x200] = 0xF5
	m.memory[0x201] = 0x0A
	assert.NoError(t, m.step())
	assert.Equal(t, uint16(0x200), m.pc, "wait must retry until a key is pressed")

	m.KeyDown(0xB)
	m.KeyDown(0x3)
	assert.NoError(t, m.step())
	assert.Equal(t, uint8(0x3), m.v[5], "lowest pressed key index wins")
	assert.Equal(t, uint16(0x202), m.pc)
}

func TestLoadGlyph(t *testing.T) {
	m := newTestMachine(t)

	for glyph := range uint8(16) {
		m.pc = ProgramStart
		m.v[2] = glyph

		runOpcode(t, m, 0xF229)
		assert.Equal(t, uint16(glyph)*glyphSize, m.i, "glyph %X", glyph)
	}

	// values above 15 point past the font table
	m.pc = ProgramStart
	m.v[2] = 17
	runOpcode(t, m, 0xF229)
	assert.Equal(t, uint16(85), m.i)
}

func TestStoreBCD(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
		want  [3]uint8
	}{
		{"three digits", 157, [3]uint8{1, 5, 7}},
		{"two digits", 42, [3]uint8{0, 4, 2}},
		{"zero", 0, [3]uint8{0, 0, 0}},
		{"max value", 255, [3]uint8{2, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.v[9] = tt.value
			m.i = 0x300

			runOpcode(t, m, 0xF933)

			assert.Equal(t, tt.want[0], m.memory[0x300])
			assert.Equal(t, tt.want[1], m.memory[0x301])
			assert.Equal(t, tt.want[2], m.memory[0x302])
		})
	}
}

func TestStoreRegisters(t *testing.T) {
	m := newTestMachine(t)
	for i := range uint8(4) {
		m.v[i] = i + 1
	}
	m.v[4] = 0xEE
	m.i = 0x300

	runOpcode(t, m, 0xF355)

	for i := range 4 {
		assert.Equal(t, uint8(i+1), m.memory[0x300+i])
	}
	assert.Equal(t, uint8(0), m.memory[0x304], "registers past VX must not be stored")
	assert.Equal(t, uint16(0x300), m.i, "address register must stay untouched")
}

func TestLoadRegisters(t *testing.T) {
	m := newTestMachine(t)
	m.i = 0x300
	for i := range 3 {
		m.memory[0x300+i] = byte(0x40 + i)
	}
	m.memory[0x303] = 0xEE

	runOpcode(t, m, 0xF265)

	assert.Equal(t, uint8(0x40), m.v[0])
	assert.Equal(t, uint8(0x41), m.v[1])
	assert.Equal(t, uint8(0x42), m.v[2])
	assert.Equal(t, uint8(0), m.v[3], "registers past VX must not be loaded")
	assert.Equal(t, uint16(0x300), m.i, "address register must stay untouched")
}

func TestUnknownOpcode(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
	}{
		{"sys", 0x0123},
		{"invalid arithmetic", 0x8AB8},
		{"invalid skip", 0x5AB1},
		{"invalid key group", 0xE5FF},
		{"invalid load group", 0xF5FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.memory[0x200] = byte(tt.opcode >> 8)
			m.memory[0x201] = byte(tt.opcode)

			err := m.step()
			assert.True(t, errors.Is(err, ErrUnknownOpcode))

			var opcodeErr *OpcodeError
			assert.True(t, errors.As(err, &opcodeErr))
			assert.Equal(t, uint16(0x200), opcodeErr.Address)
			assert.Equal(t, tt.opcode, opcodeErr.Opcode)
		})
	}
}
