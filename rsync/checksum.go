package rsync

// RollingChecksum is the capability set required of a weak checksum used to
// scan new content for chunks that are reusable from old content. It must
// support being built from an initial window and then rolled one byte at a
// time in either direction without rehashing the whole window.
//
// Implementations are not expected to be safe for concurrent use; a fresh
// RollingChecksum is created for each scan.
type RollingChecksum interface {
	// Checksum returns the checksum of the current window.
	Checksum() uint32
	// PushByte extends the window by one byte, appending it to the end.
	PushByte(b byte)
	// PopByte shrinks the window by one byte, removing it from the
	// beginning. windowLength is the length of the window immediately
	// before the byte is removed, which some algorithms need in order to
	// update their internal state correctly.
	PopByte(b byte, windowLength int)
}

// RollingChecksumFactory constructs a RollingChecksum seeded with an initial
// window of bytes.
type RollingChecksumFactory func(window []byte) RollingChecksum

// adler32Modulus is the largest prime smaller than 2^16, used by the Adler-32
// checksum.
const adler32Modulus = 65521

// RollingAdler32 is a from-scratch, rollable implementation of the Adler-32
// checksum. Its Checksum method agrees with hash/adler32.Checksum for any
// given window; the value added here is the ability to slide the window in
// O(1) instead of rehashing.
type RollingAdler32 struct {
	a, b uint32
}

// NewRollingAdler32 creates a RollingAdler32 seeded with the given window.
func NewRollingAdler32(window []byte) RollingChecksum {
	r := &RollingAdler32{a: 1, b: 0}
	for _, c := range window {
		r.a = (r.a + uint32(c)) % adler32Modulus
		r.b = (r.b + r.a) % adler32Modulus
	}
	return r
}

// Checksum implements RollingChecksum.Checksum.
func (r *RollingAdler32) Checksum() uint32 {
	return (r.b << 16) | r.a
}

// PushByte implements RollingChecksum.PushByte.
func (r *RollingAdler32) PushByte(c byte) {
	r.a = (r.a + uint32(c)) % adler32Modulus
	r.b = (r.b + r.a) % adler32Modulus
}

// PopByte implements RollingChecksum.PopByte. windowLength is the size of the
// window before the byte is popped.
func (r *RollingAdler32) PopByte(c byte, windowLength int) {
	n := uint64(windowLength) % adler32Modulus
	cu := uint64(c) % adler32Modulus

	// a' = a - c (mod M)
	r.a = uint32((uint64(r.a) + adler32Modulus - cu) % adler32Modulus)

	// b' = b - 1 - n*c (mod M)
	sub := (1 + n*cu) % adler32Modulus
	r.b = uint32((uint64(r.b) + adler32Modulus - sub) % adler32Modulus)
}
