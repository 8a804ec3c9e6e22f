package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned when an opcode matches no instruction
	// of the instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is returned when a subroutine call would exceed
	// the call stack depth.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when a return is executed with an
	// empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrProgramTooLarge is returned when a program image does not fit
	// into the program region of memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// OpcodeError describes an instruction that stopped execution. It
// carries the memory address and the raw opcode word of the fault.
type OpcodeError struct {
	Address uint16
	Opcode  uint16
	Err     error
}

// Error implements the error interface.
func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%s: opcode $%04X at address $%03X", e.Err, e.Opcode, e.Address)
}

// Unwrap returns the underlying error.
func (e *OpcodeError) Unwrap() error {
	return e.Err
}
