// Package isa defines the CHIP-8 instruction set architecture.
//
// # Instruction Encoding
//
// Every CHIP-8 instruction is a 16-bit word stored big-endian: the high
// byte sits at the instruction address, the low byte right after it. The
// top nibble selects an operation family, the remaining nibbles carry up
// to three kinds of parameters:
//
//   - X:   register index in bits 8-11
//   - Y:   register index in bits 4-7
//   - N:   4-bit immediate in bits 0-3
//   - NN:  8-bit immediate in bits 0-7
//   - NNN: 12-bit address in bits 0-11
//
// # Masked Lookup Ladder
//
// Several distinct instructions share a top nibble and differ only in
// their low bits, for example 8XY0 (LD) and 8XY1 (OR). An opcode is
// therefore resolved by applying three masks in strict priority order,
// finest first:
//
//  1. 0xF0FF - system and E/F family instructions (00E0, EX9E, FX33, ...)
//  2. 0xF00F - register/register operations (5XY0, 8XY0-8XYE, 9XY0)
//  3. 0xF000 - family-addressed instructions (1NNN, 6XNN, ANNN, ...)
//
// Each masked value is looked up in a table keyed by the instruction
// pattern with all parameter nibbles zeroed; the first hit wins. An
// opcode that misses all three tables is not part of the instruction
// set.
//
// Both the execution core and the disassembler resolve opcodes through
// this single table, keeping the two in byte-for-byte agreement about
// the wire format.
package isa
