package chip8

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome framebuffer. Every row is stored as one
// 64-bit word with the leftmost pixel in the most significant bit,
// which turns the XOR blit of a sprite row into a single XOR and the
// collision check into a single AND.
type Display struct {
	rows [DisplayHeight]uint64
}

// Clear unsets every pixel.
func (d *Display) Clear() {
	d.rows = [DisplayHeight]uint64{}
}

// Draw XOR-blits a sprite of up to 16 rows at the given position and
// reports whether a set pixel was unset by the blit. The start
// position wraps around the display edges, the sprite itself is
// clipped at the right and bottom edge.
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	column := uint(x) % DisplayWidth
	row := int(y) % DisplayHeight

	var collision bool
	for i, b := range sprite {
		if row+i >= DisplayHeight {
			break
		}

		bits := uint64(b) << 56 >> column
		old := d.rows[row+i]
		d.rows[row+i] = old ^ bits
		if old&bits != 0 {
			collision = true
		}
	}
	return collision
}

// Pixel reports whether the pixel at the given coordinates is set.
// Coordinates outside the display report an unset pixel.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return (d.rows[y]>>(DisplayWidth-1-x))&1 == 1
}
