// Package chip8 implements the CHIP-8 virtual machine.
//
// The machine owns 4 KiB of memory, sixteen 8-bit registers, a 16-bit
// address register, a 16 entry call stack, two 60 Hz countdown timers,
// a 64x32 monochrome display and a 16-key input pad. Programs are raw
// binary images copied to address 0x200; the built-in font glyphs live
// at the base of memory.
//
// # Execution Model
//
// The machine never runs on its own. A host drives it by calling
// Advance with the current time (or AdvanceBy with an explicit
// duration); the machine converts the elapsed time into a batch of
// instruction cycles at the configured execution speed, runs the batch
// to completion and then decays both timers at 60 Hz. Within one batch
// every instruction is fetched fresh from the current program counter,
// so self-modifying code and mid-batch jumps behave as on real
// interpreters. The machine performs no blocking I/O, starts no
// goroutines and holds no locks; hosts that deliver key events from
// another goroutine must serialize them with the advance calls.
//
// # Termination
//
// A jump to its own address halts the machine permanently; advancing a
// halted machine is a no-op and only a reload recovers. An opcode that
// matches no instruction, a call that overflows the stack or a return
// on an empty stack stop execution with an error that identifies the
// faulting address and opcode; the same error is reported on every
// later advance until a reload.
//
// # Observers
//
// Display and sound state changes are pushed to registered notifiers:
// a display notice after every draw instruction, sound-on when a
// program starts the sound timer and sound-off when the timer decays
// to zero. Notifiers run synchronously on the advancing goroutine.
package chip8
