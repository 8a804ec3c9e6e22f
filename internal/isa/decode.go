package isa

// OpcodeSize is the size of a CHIP-8 instruction in bytes.
const OpcodeSize = 2

// decodeMasks are applied to an opcode in this order. The finer masks
// come first so that instructions differing only in their low bits are
// never shadowed by a coarser family match.
var decodeMasks = [...]uint16{0xF0FF, 0xF00F, 0xF000}

// decodeTables maps each decode mask to the instructions of its group,
// keyed by the opcode pattern with all parameter nibbles zeroed.
var decodeTables = buildDecodeTables()

func buildDecodeTables() map[uint16]map[uint16]*Instruction {
	tables := make(map[uint16]map[uint16]*Instruction, len(decodeMasks))
	for _, mask := range decodeMasks {
		tables[mask] = map[uint16]*Instruction{}
	}
	for _, ins := range Instructions {
		tables[ins.Mask][ins.Value] = ins
	}
	return tables
}

// Decode resolves a 16-bit opcode to its instruction using the masked
// lookup ladder. It returns false if the opcode does not encode any
// CHIP-8 instruction.
func Decode(opcode uint16) (*Instruction, bool) {
	for _, mask := range decodeMasks {
		if ins, ok := decodeTables[mask][opcode&mask]; ok {
			return ins, true
		}
	}
	return nil, false
}

// X extracts the first register index from an opcode (bits 8-11).
func X(opcode uint16) uint8 {
	return uint8(opcode>>8) & 0x0F
}

// Y extracts the second register index from an opcode (bits 4-7).
func Y(opcode uint16) uint8 {
	return uint8(opcode>>4) & 0x0F
}

// N extracts the 4-bit immediate from an opcode (bits 0-3).
func N(opcode uint16) uint8 {
	return uint8(opcode) & 0x0F
}

// NN extracts the 8-bit immediate from an opcode (bits 0-7).
func NN(opcode uint16) uint8 {
	return uint8(opcode)
}

// NNN extracts the 12-bit address from an opcode (bits 0-11).
func NNN(opcode uint16) uint16 {
	return opcode & 0x0FFF
}
