package chip8

import (
	"github.com/retroenv/chip8go/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

// opcodeHandler executes a single decoded instruction. Every handler
// owns the program counter movement of its instruction.
type opcodeHandler func(opcode uint16) error

// newDispatchTable binds every instruction of the instruction set to
// its executor.
func (m *Machine) newDispatchTable() map[*isa.Instruction]opcodeHandler {
	return map[*isa.Instruction]opcodeHandler{
		isa.ClearScreen:          m.opClearScreen,
		isa.Return:               m.opReturn,
		isa.Jump:                 m.opJump,
		isa.Call:                 m.opCall,
		isa.SkipEqualByte:        m.opSkipEqualByte,
		isa.SkipNotEqualByte:     m.opSkipNotEqualByte,
		isa.SkipEqualRegister:    m.opSkipEqualRegister,
		isa.LoadByte:             m.opLoadByte,
		isa.AddByte:              m.opAddByte,
		isa.LoadRegister:         m.opLoadRegister,
		isa.Or:                   m.opOr,
		isa.And:                  m.opAnd,
		isa.Xor:                  m.opXor,
		isa.AddRegister:          m.opAddRegister,
		isa.Sub:                  m.opSub,
		isa.ShiftRight:           m.opShiftRight,
		isa.SubN:                 m.opSubN,
		isa.ShiftLeft:            m.opShiftLeft,
		isa.SkipNotEqualRegister: m.opSkipNotEqualRegister,
		isa.LoadIndex:            m.opLoadIndex,
		isa.JumpV0:               m.opJumpV0,
		isa.Random:               m.opRandom,
		isa.Draw:                 m.opDraw,
		isa.SkipKeyPressed:       m.opSkipKeyPressed,
		isa.SkipKeyNotPressed:    m.opSkipKeyNotPressed,
		isa.LoadDelayTimer:       m.opLoadDelayTimer,
		isa.WaitKey:              m.opWaitKey,
		isa.SetDelayTimer:        m.opSetDelayTimer,
		isa.SetSoundTimer:        m.opSetSoundTimer,
		isa.AddIndex:             m.opAddIndex,
		isa.LoadGlyph:            m.opLoadGlyph,
		isa.StoreBCD:             m.opStoreBCD,
		isa.StoreRegisters:       m.opStoreRegisters,
		isa.LoadRegisters:        m.opLoadRegisters,
	}
}

// skipIf advances the program counter by two instructions if the
// condition holds, otherwise by one.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2 * opcodeSize
	} else {
		m.pc += opcodeSize
	}
}

// setFlag stores a condition result in the VF flag register.
func (m *Machine) setFlag(condition bool) {
	if condition {
		m.v[0xF] = 1
	} else {
		m.v[0xF] = 0
	}
}

// opClearScreen unsets all display pixels (00E0).
func (m *Machine) opClearScreen(_ uint16) error {
	m.display.Clear()
	m.pc += opcodeSize
	return nil
}

// opReturn pops the return address from the call stack (00EE).
func (m *Machine) opReturn(_ uint16) error {
	address, err := m.stack.pop()
	if err != nil {
		return err
	}

	m.pc = address
	return nil
}

// opJump sets the program counter to NNN. A jump to its own address
// halts the machine permanently (1NNN).
func (m *Machine) opJump(opcode uint16) error {
	target := isa.NNN(opcode)
	if target == m.pc {
		m.halted = true
		m.logger.Debug("Jump to own address, halting", log.Hex("address", m.pc))
	}

	m.pc = target
	return nil
}

// opCall pushes the address of the following instruction onto the call
// stack and jumps to NNN (2NNN).
func (m *Machine) opCall(opcode uint16) error {
	if err := m.stack.push(m.pc + opcodeSize); err != nil {
		return err
	}

	m.pc = isa.NNN(opcode)
	return nil
}

// opSkipEqualByte skips the next instruction if VX equals NN (3XNN).
func (m *Machine) opSkipEqualByte(opcode uint16) error {
	m.skipIf(m.v[isa.X(opcode)] == isa.NN(opcode))
	return nil
}

// opSkipNotEqualByte skips the next instruction if VX does not equal
// NN (4XNN).
func (m *Machine) opSkipNotEqualByte(opcode uint16) error {
	m.skipIf(m.v[isa.X(opcode)] != isa.NN(opcode))
	return nil
}

// opSkipEqualRegister skips the next instruction if VX equals VY
// (5XY0).
func (m *Machine) opSkipEqualRegister(opcode uint16) error {
	m.skipIf(m.v[isa.X(opcode)] == m.v[isa.Y(opcode)])
	return nil
}

// opLoadByte sets VX to NN (6XNN).
func (m *Machine) opLoadByte(opcode uint16) error {
	m.v[isa.X(opcode)] = isa.NN(opcode)
	m.pc += opcodeSize
	return nil
}

// opAddByte adds NN to VX, wrapping around. The flag register is not
// touched (7XNN).
func (m *Machine) opAddByte(opcode uint16) error {
	m.v[isa.X(opcode)] += isa.NN(opcode)
	m.pc += opcodeSize
	return nil
}

// opLoadRegister copies VY into VX (8XY0).
func (m *Machine) opLoadRegister(opcode uint16) error {
	m.v[isa.X(opcode)] = m.v[isa.Y(opcode)]
	m.pc += opcodeSize
	return nil
}

// opOr sets VX to VX OR VY (8XY1).
func (m *Machine) opOr(opcode uint16) error {
	m.v[isa.X(opcode)] |= m.v[isa.Y(opcode)]
	m.pc += opcodeSize
	return nil
}

// opAnd sets VX to VX AND VY (8XY2).
func (m *Machine) opAnd(opcode uint16) error {
	m.v[isa.X(opcode)] &= m.v[isa.Y(opcode)]
	m.pc += opcodeSize
	return nil
}

// opXor sets VX to VX XOR VY (8XY3).
func (m *Machine) opXor(opcode uint16) error {
	m.v[isa.X(opcode)] ^= m.v[isa.Y(opcode)]
	m.pc += opcodeSize
	return nil
}

// opAddRegister adds VY to VX, wrapping around. VF is set to the carry
// flag before the sum is stored, the sum wins if X names the flag
// register (8XY4).
func (m *Machine) opAddRegister(opcode uint16) error {
	sum := uint16(m.v[isa.X(opcode)]) + uint16(m.v[isa.Y(opcode)])
	m.setFlag(sum > 0xFF)
	m.v[isa.X(opcode)] = uint8(sum)
	m.pc += opcodeSize
	return nil
}

// opSub sets VX to VX minus VY, wrapping around. VF is set to the
// no-borrow flag, 1 if VX is greater than VY (8XY5).
func (m *Machine) opSub(opcode uint16) error {
	vx, vy := m.v[isa.X(opcode)], m.v[isa.Y(opcode)]
	m.setFlag(vx > vy)
	m.v[isa.X(opcode)] = vx - vy
	m.pc += opcodeSize
	return nil
}

// opShiftRight stores VY shifted right by one bit in VX. VF receives
// the low bit of VX before the shift (8XY6).
func (m *Machine) opShiftRight(opcode uint16) error {
	vx, vy := m.v[isa.X(opcode)], m.v[isa.Y(opcode)]
	m.setFlag(vx&1 == 1)
	m.v[isa.X(opcode)] = vy >> 1
	m.pc += opcodeSize
	return nil
}

// opSubN sets VX to VY minus VX, wrapping around. VF is set to the
// no-borrow flag, 1 if VY is greater than VX (8XY7).
func (m *Machine) opSubN(opcode uint16) error {
	vx, vy := m.v[isa.X(opcode)], m.v[isa.Y(opcode)]
	m.setFlag(vy > vx)
	m.v[isa.X(opcode)] = vy - vx
	m.pc += opcodeSize
	return nil
}

// opShiftLeft stores VY shifted left by one bit in VX. VF receives the
// low bit of VX before the shift (8XYE).
func (m *Machine) opShiftLeft(opcode uint16) error {
	vx, vy := m.v[isa.X(opcode)], m.v[isa.Y(opcode)]
	m.setFlag(vx&1 == 1)
	m.v[isa.X(opcode)] = vy << 1
	m.pc += opcodeSize
	return nil
}

// opSkipNotEqualRegister skips the next instruction if VX does not
// equal VY (9XY0).
func (m *Machine) opSkipNotEqualRegister(opcode uint16) error {
	m.skipIf(m.v[isa.X(opcode)] != m.v[isa.Y(opcode)])
	return nil
}

// opLoadIndex sets the address register to NNN (ANNN).
func (m *Machine) opLoadIndex(opcode uint16) error {
	m.i = isa.NNN(opcode)
	m.pc += opcodeSize
	return nil
}

// opJumpV0 jumps to NNN plus V0 (BNNN).
func (m *Machine) opJumpV0(opcode uint16) error {
	m.pc = isa.NNN(opcode) + uint16(m.v[0])
	return nil
}

// opRandom sets VX to a random byte masked with NN (CXNN).
func (m *Machine) opRandom(opcode uint16) error {
	m.v[isa.X(opcode)] = m.rand() & isa.NN(opcode)
	m.pc += opcodeSize
	return nil
}

// opDraw blits the N byte sprite at the address register to position
// VX, VY, sets VF to the collision flag and emits a display notice
// (DXYN).
func (m *Machine) opDraw(opcode uint16) error {
	var sprite [16]byte
	n := uint16(isa.N(opcode))
	for row := range n {
		sprite[row] = m.memory[(m.i+row)&addressMask]
	}

	collision := m.display.Draw(m.v[isa.X(opcode)], m.v[isa.Y(opcode)], sprite[:n])
	m.setFlag(collision)
	m.pc += opcodeSize

	m.notify(NoticeDisplayUpdated)
	return nil
}

// opSkipKeyPressed skips the next instruction if the key indexed by VX
// is pressed (EX9E).
func (m *Machine) opSkipKeyPressed(opcode uint16) error {
	m.skipIf(m.keypad.Pressed(m.v[isa.X(opcode)]))
	return nil
}

// opSkipKeyNotPressed skips the next instruction if the key indexed by
// VX is not pressed (EXA1).
func (m *Machine) opSkipKeyNotPressed(opcode uint16) error {
	m.skipIf(!m.keypad.Pressed(m.v[isa.X(opcode)]))
	return nil
}

// opLoadDelayTimer sets VX to the delay timer value (FX07).
func (m *Machine) opLoadDelayTimer(opcode uint16) error {
	m.v[isa.X(opcode)] = m.delayTimer
	m.pc += opcodeSize
	return nil
}

// opWaitKey scans the keypad from key 0 upwards and stores the first
// pressed key in VX. While no key is pressed the program counter stays
// in place so the instruction is retried on the next cycle (FX0A).
func (m *Machine) opWaitKey(opcode uint16) error {
	key, ok := m.keypad.FirstPressed()
	if !ok {
		return nil
	}

	m.v[isa.X(opcode)] = key
	m.pc += opcodeSize
	return nil
}

// opSetDelayTimer sets the delay timer to VX (FX15).
func (m *Machine) opSetDelayTimer(opcode uint16) error {
	m.delayTimer = m.v[isa.X(opcode)]
	m.pc += opcodeSize
	return nil
}

// opSetSoundTimer sets the sound timer to VX and emits a sound-on
// notice for nonzero values (FX18).
func (m *Machine) opSetSoundTimer(opcode uint16) error {
	value := m.v[isa.X(opcode)]
	m.soundTimer = value
	m.pc += opcodeSize

	if value > 0 {
		m.notify(NoticeSoundOn)
	}
	return nil
}

// opAddIndex adds VX to the address register, wrapping at 16 bit. The
// flag register is not touched (FX1E).
func (m *Machine) opAddIndex(opcode uint16) error {
	m.i += uint16(m.v[isa.X(opcode)])
	m.pc += opcodeSize
	return nil
}

// opLoadGlyph points the address register at the font glyph of the
// digit in VX. Glyphs are five bytes each, starting at address zero
// (FX29).
func (m *Machine) opLoadGlyph(opcode uint16) error {
	m.i = uint16(m.v[isa.X(opcode)]) * glyphSize
	m.pc += opcodeSize
	return nil
}

// opStoreBCD stores the hundreds, tens and units digits of VX at the
// addresses I, I+1 and I+2 (FX33).
func (m *Machine) opStoreBCD(opcode uint16) error {
	value := m.v[isa.X(opcode)]
	m.memory[m.i&addressMask] = value / 100
	m.memory[(m.i+1)&addressMask] = value / 10 % 10
	m.memory[(m.i+2)&addressMask] = value % 10
	m.pc += opcodeSize
	return nil
}

// opStoreRegisters copies the registers V0 through VX inclusive to
// memory starting at the address register. The address register itself
// is left unchanged (FX55).
func (m *Machine) opStoreRegisters(opcode uint16) error {
	x := uint16(isa.X(opcode))
	for offset := uint16(0); offset <= x; offset++ {
		m.memory[(m.i+offset)&addressMask] = m.v[offset]
	}

	m.pc += opcodeSize
	return nil
}

// opLoadRegisters loads the registers V0 through VX inclusive from
// memory starting at the address register. The address register itself
// is left unchanged (FX65).
func (m *Machine) opLoadRegisters(opcode uint16) error {
	x := uint16(isa.X(opcode))
	for offset := uint16(0); offset <= x; offset++ {
		m.v[offset] = m.memory[(m.i+offset)&addressMask]
	}

	m.pc += opcodeSize
	return nil
}
