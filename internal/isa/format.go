package isa

import "fmt"

// Format renders the instruction with the operands encoded in the given
// opcode, using Cowgod-style assembly notation.
func (ins *Instruction) Format(opcode uint16) string {
	params := ins.formatParams(opcode)
	if params == "" {
		return ins.Name
	}
	return ins.Name + " " + params
}

func (ins *Instruction) formatParams(opcode uint16) string {
	switch ins.params {
	case paramsAddr:
		return fmt.Sprintf("$%03X", NNN(opcode))
	case paramsReg:
		return fmt.Sprintf("V%X", X(opcode))
	case paramsRegByte:
		return fmt.Sprintf("V%X, $%02X", X(opcode), NN(opcode))
	case paramsRegReg:
		return fmt.Sprintf("V%X, V%X", X(opcode), Y(opcode))
	case paramsRegRegNib:
		return fmt.Sprintf("V%X, V%X, $%X", X(opcode), Y(opcode), N(opcode))
	case paramsIndexAddr:
		return fmt.Sprintf("I, $%03X", NNN(opcode))
	case paramsV0Addr:
		return fmt.Sprintf("V0, $%03X", NNN(opcode))
	case paramsRegDelay:
		return fmt.Sprintf("V%X, DT", X(opcode))
	case paramsRegKey:
		return fmt.Sprintf("V%X, K", X(opcode))
	case paramsDelayReg:
		return fmt.Sprintf("DT, V%X", X(opcode))
	case paramsSoundReg:
		return fmt.Sprintf("ST, V%X", X(opcode))
	case paramsIndexReg:
		return fmt.Sprintf("I, V%X", X(opcode))
	case paramsGlyphReg:
		return fmt.Sprintf("F, V%X", X(opcode))
	case paramsBCDReg:
		return fmt.Sprintf("B, V%X", X(opcode))
	case paramsMemReg:
		return fmt.Sprintf("[I], V%X", X(opcode))
	case paramsRegMem:
		return fmt.Sprintf("V%X, [I]", X(opcode))
	default:
		return ""
	}
}
