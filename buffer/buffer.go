/*
Package buffer implements the growable byte buffer used to collect the pixel
data of an XBM image.

The buffer tracks its capacity separately from the number of valid bytes it
holds. Capacity only ever changes through Resize, which grows in whatever
amount the caller asks for; Append grows by GrowStep bytes at a time so an
allocated buffer always has a capacity that is a multiple of GrowStep.
*/
package buffer

import (
	"errors"
)

// GrowStep is the number of bytes added to the capacity each time Append
// runs out of room
const GrowStep = 4096

var (
	// ErrTooLarge is returned when growing the buffer would exceed its limit
	ErrTooLarge = errors.New("buffer: allocation exceeds limit")

	errNegative = errors.New("buffer: negative size")
)

// Buffer is a byte buffer with an explicit capacity. The zero value is an
// empty, unallocated buffer with no limit.
type Buffer struct {
	b []byte
	n int

	// Limit caps the capacity in bytes, zero means unlimited
	Limit int
}

// Resize reallocates the buffer to exactly size bytes, keeping the existing
// contents up to the smaller of the old and new sizes. A size of zero
// releases all storage. On error the buffer is left unchanged.
func (b *Buffer) Resize(size int) error {
	switch {
	case size < 0:
		return errNegative
	case size == 0:
		b.Release()
		return nil
	case b.Limit > 0 && size > b.Limit:
		return ErrTooLarge
	}

	tmp := make([]byte, size)
	copy(tmp, b.b)
	b.b = tmp
	if b.n > size {
		b.n = size
	}
	return nil
}

// Append writes c after the last valid byte, growing the buffer by GrowStep
// when it is full
func (b *Buffer) Append(c byte) error {
	if b.n >= len(b.b) {
		if err := b.Resize(len(b.b) + GrowStep); err != nil {
			return err
		}
	}
	b.b[b.n] = c
	b.n++
	return nil
}

// Bytes returns the valid bytes. The slice aliases the buffer and is only
// valid until the next call to Resize or Release.
func (b *Buffer) Bytes() []byte {
	return b.b[:b.n]
}

// Len returns the number of valid bytes
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the allocated capacity
func (b *Buffer) Cap() int {
	return len(b.b)
}

// Release frees the storage and resets the buffer to its empty state. The
// limit is kept.
func (b *Buffer) Release() {
	b.b = nil
	b.n = 0
}
