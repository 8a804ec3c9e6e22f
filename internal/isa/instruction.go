package isa

import (
	"github.com/retroenv/retrogolib/set"
)

// paramsKind describes how an instruction's parameters are rendered in
// assembly notation.
type paramsKind uint8

const (
	paramsNone      paramsKind = iota
	paramsAddr                 // $NNN
	paramsReg                  // VX
	paramsRegByte              // VX, $NN
	paramsRegReg               // VX, VY
	paramsRegRegNib            // VX, VY, $N
	paramsIndexAddr            // I, $NNN
	paramsV0Addr               // V0, $NNN
	paramsRegDelay             // VX, DT
	paramsRegKey               // VX, K
	paramsDelayReg             // DT, VX
	paramsSoundReg             // ST, VX
	paramsIndexReg             // I, VX
	paramsGlyphReg             // F, VX
	paramsBCDReg               // B, VX
	paramsMemReg               // [I], VX
	paramsRegMem               // VX, [I]
)

// Instruction describes a single CHIP-8 instruction: its mnemonic, the
// decode mask group it belongs to and its pattern value with all
// parameter nibbles zeroed.
type Instruction struct {
	Name  string
	Mask  uint16
	Value uint16

	params paramsKind
}

var (
	// ClearScreen clears the display (00E0).
	ClearScreen = &Instruction{Name: "CLS", Mask: 0xF0FF, Value: 0x00E0, params: paramsNone}

	// Return returns from a subroutine (00EE).
	Return = &Instruction{Name: "RET", Mask: 0xF0FF, Value: 0x00EE, params: paramsNone}

	// Jump jumps to address NNN (1NNN).
	Jump = &Instruction{Name: "JP", Mask: 0xF000, Value: 0x1000, params: paramsAddr}

	// Call calls the subroutine at address NNN (2NNN).
	Call = &Instruction{Name: "CALL", Mask: 0xF000, Value: 0x2000, params: paramsAddr}

	// SkipEqualByte skips the next instruction if VX == NN (3XNN).
	SkipEqualByte = &Instruction{Name: "SE", Mask: 0xF000, Value: 0x3000, params: paramsRegByte}

	// SkipNotEqualByte skips the next instruction if VX != NN (4XNN).
	SkipNotEqualByte = &Instruction{Name: "SNE", Mask: 0xF000, Value: 0x4000, params: paramsRegByte}

	// SkipEqualRegister skips the next instruction if VX == VY (5XY0).
	SkipEqualRegister = &Instruction{Name: "SE", Mask: 0xF00F, Value: 0x5000, params: paramsRegReg}

	// LoadByte sets VX to NN (6XNN).
	LoadByte = &Instruction{Name: "LD", Mask: 0xF000, Value: 0x6000, params: paramsRegByte}

	// AddByte adds NN to VX without touching the carry flag (7XNN).
	AddByte = &Instruction{Name: "ADD", Mask: 0xF000, Value: 0x7000, params: paramsRegByte}

	// LoadRegister copies VY into VX (8XY0).
	LoadRegister = &Instruction{Name: "LD", Mask: 0xF00F, Value: 0x8000, params: paramsRegReg}

	// Or sets VX to VX OR VY (8XY1).
	Or = &Instruction{Name: "OR", Mask: 0xF00F, Value: 0x8001, params: paramsRegReg}

	// And sets VX to VX AND VY (8XY2).
	And = &Instruction{Name: "AND", Mask: 0xF00F, Value: 0x8002, params: paramsRegReg}

	// Xor sets VX to VX XOR VY (8XY3).
	Xor = &Instruction{Name: "XOR", Mask: 0xF00F, Value: 0x8003, params: paramsRegReg}

	// AddRegister adds VY to VX and sets VF on carry (8XY4).
	AddRegister = &Instruction{Name: "ADD", Mask: 0xF00F, Value: 0x8004, params: paramsRegReg}

	// Sub subtracts VY from VX and sets VF to the no-borrow flag (8XY5).
	Sub = &Instruction{Name: "SUB", Mask: 0xF00F, Value: 0x8005, params: paramsRegReg}

	// ShiftRight sets VX to VY shifted right by one bit. The shift
	// source is VY, not VX (8XY6).
	ShiftRight = &Instruction{Name: "SHR", Mask: 0xF00F, Value: 0x8006, params: paramsReg}

	// SubN sets VX to VY minus VX and VF to the no-borrow flag (8XY7).
	SubN = &Instruction{Name: "SUBN", Mask: 0xF00F, Value: 0x8007, params: paramsRegReg}

	// ShiftLeft sets VX to VY shifted left by one bit. The shift source
	// is VY, not VX (8XYE).
	ShiftLeft = &Instruction{Name: "SHL", Mask: 0xF00F, Value: 0x800E, params: paramsReg}

	// SkipNotEqualRegister skips the next instruction if VX != VY (9XY0).
	SkipNotEqualRegister = &Instruction{Name: "SNE", Mask: 0xF00F, Value: 0x9000, params: paramsRegReg}

	// LoadIndex sets the address register I to NNN (ANNN).
	LoadIndex = &Instruction{Name: "LD", Mask: 0xF000, Value: 0xA000, params: paramsIndexAddr}

	// JumpV0 jumps to address NNN plus V0 (BNNN).
	JumpV0 = &Instruction{Name: "JP", Mask: 0xF000, Value: 0xB000, params: paramsV0Addr}

	// Random sets VX to a random byte masked with NN (CXNN).
	Random = &Instruction{Name: "RND", Mask: 0xF000, Value: 0xC000, params: paramsRegByte}

	// Draw draws the N byte sprite at memory address I to position
	// VX, VY (DXYN).
	Draw = &Instruction{Name: "DRW", Mask: 0xF000, Value: 0xD000, params: paramsRegRegNib}

	// SkipKeyPressed skips the next instruction if the key indexed by
	// VX is pressed (EX9E).
	SkipKeyPressed = &Instruction{Name: "SKP", Mask: 0xF0FF, Value: 0xE09E, params: paramsReg}

	// SkipKeyNotPressed skips the next instruction if the key indexed
	// by VX is not pressed (EXA1).
	SkipKeyNotPressed = &Instruction{Name: "SKNP", Mask: 0xF0FF, Value: 0xE0A1, params: paramsReg}

	// LoadDelayTimer sets VX to the delay timer value (FX07).
	LoadDelayTimer = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF007, params: paramsRegDelay}

	// WaitKey waits for a key press and stores the key index in VX (FX0A).
	WaitKey = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF00A, params: paramsRegKey}

	// SetDelayTimer sets the delay timer to VX (FX15).
	SetDelayTimer = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF015, params: paramsDelayReg}

	// SetSoundTimer sets the sound timer to VX (FX18).
	SetSoundTimer = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF018, params: paramsSoundReg}

	// AddIndex adds VX to the address register I (FX1E).
	AddIndex = &Instruction{Name: "ADD", Mask: 0xF0FF, Value: 0xF01E, params: paramsIndexReg}

	// LoadGlyph points I at the built-in font glyph for the digit in VX (FX29).
	LoadGlyph = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF029, params: paramsGlyphReg}

	// StoreBCD stores the decimal digits of VX at I, I+1 and I+2 (FX33).
	StoreBCD = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF033, params: paramsBCDReg}

	// StoreRegisters stores V0 through VX to memory starting at I (FX55).
	StoreRegisters = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF055, params: paramsMemReg}

	// LoadRegisters loads V0 through VX from memory starting at I (FX65).
	LoadRegisters = &Instruction{Name: "LD", Mask: 0xF0FF, Value: 0xF065, params: paramsRegMem}
)

// Instructions contains every instruction of the CHIP-8 instruction
// set, ordered by encoding.
var Instructions = []*Instruction{
	ClearScreen,
	Return,
	Jump,
	Call,
	SkipEqualByte,
	SkipNotEqualByte,
	SkipEqualRegister,
	LoadByte,
	AddByte,
	LoadRegister,
	Or,
	And,
	Xor,
	AddRegister,
	Sub,
	ShiftRight,
	SubN,
	ShiftLeft,
	SkipNotEqualRegister,
	LoadIndex,
	JumpV0,
	Random,
	Draw,
	SkipKeyPressed,
	SkipKeyNotPressed,
	LoadDelayTimer,
	WaitKey,
	SetDelayTimer,
	SetSoundTimer,
	AddIndex,
	LoadGlyph,
	StoreBCD,
	StoreRegisters,
	LoadRegisters,
}

// SkipInstructions contains all instructions that conditionally skip
// the following instruction.
var SkipInstructions = newInstructionSet(
	SkipEqualByte,
	SkipNotEqualByte,
	SkipEqualRegister,
	SkipNotEqualRegister,
	SkipKeyPressed,
	SkipKeyNotPressed,
)

func newInstructionSet(instructions ...*Instruction) set.Set[*Instruction] {
	s := set.New[*Instruction]()
	for _, ins := range instructions {
		s.Add(ins)
	}
	return s
}
