package chip8

// KeyCount is the number of keys on the CHIP-8 keypad.
const KeyCount = 16

// Keypad tracks the pressed state of the 16-key input pad. Key indexes
// are masked to their low nibble, out of range values alias onto the
// pad instead of faulting.
type Keypad struct {
	keys [KeyCount]bool
}

// Press marks a key as held down.
func (k *Keypad) Press(key uint8) {
	k.keys[key&0x0F] = true
}

// Release marks a key as released.
func (k *Keypad) Release(key uint8) {
	k.keys[key&0x0F] = false
}

// Pressed reports whether a key is held down.
func (k *Keypad) Pressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// FirstPressed scans the keys from index 0 upwards and returns the
// first one held down.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for key, pressed := range k.keys {
		if pressed {
			return uint8(key), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}
