package chip8

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 16

// callStack holds the return addresses of active subroutine calls.
type callStack struct {
	addresses [StackDepth]uint16
	sp        uint8
}

// push stores a return address on the stack.
func (s *callStack) push(address uint16) error {
	if s.sp == StackDepth {
		return ErrStackOverflow
	}

	s.addresses[s.sp] = address
	s.sp++
	return nil
}

// pop removes and returns the most recently pushed return address.
func (s *callStack) pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}

	s.sp--
	return s.addresses[s.sp], nil
}

// reset discards all stack entries.
func (s *callStack) reset() {
	s.sp = 0
}
