/*
Package xbm implements an X BitMap (XBM) decoder and encoder.

An XBM image is a fragment of C source. The dimensions are given by two
macros whose names end in _width and _height and the pixels follow as an
array of hexadecimal byte literals:

	#define logo_width 8
	#define logo_height 1
	static unsigned char logo_bits[] = {
	   0x3c};

Each row of pixels starts on a byte boundary and the least significant bit of
each byte is the leftmost pixel. A set bit is foreground.
*/
package xbm

import (
	"errors"
	"fmt"

	"github.com/bodgit/xbouncing/buffer"
)

const (
	// DefaultLimit is the largest amount of pixel data Load will accept
	DefaultLimit = 16 << (10 * 2)

	lineSize = 4096
)

var (
	// ErrMalformed is returned when the input is not a usable XBM image
	ErrMalformed = errors.New("xbm: malformed input")

	// ErrAllocation is returned when the pixel data outgrows the limit
	ErrAllocation = errors.New("xbm: allocation failure")

	// ErrNoDimensions means the width and height macros were not both found
	ErrNoDimensions = fmt.Errorf("%w: dimensions not found", ErrMalformed)

	// ErrZeroDimension means a width or height macro had a value of zero
	ErrZeroDimension = fmt.Errorf("%w: zero dimension", ErrMalformed)

	// ErrBadLiteral means a hex literal did not contain two hex digits
	ErrBadLiteral = fmt.Errorf("%w: bad literal", ErrMalformed)
)

// Bitmap holds the dimensions and pixel data of a decoded image. The zero
// value is an empty bitmap. A Bitmap exclusively owns its pixel data and
// must not be shared between goroutines.
type Bitmap struct {
	Width  int
	Height int

	bits buffer.Buffer
}

// NewBitmap returns a bitmap of the given size with a copy of bits as its
// pixel data
func NewBitmap(width, height int, bits []byte) (*Bitmap, error) {
	b := &Bitmap{Width: width, Height: height}
	for _, c := range bits {
		if err := b.bits.Append(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Bits returns the pixel data. The slice aliases the bitmap.
func (b *Bitmap) Bits() []byte {
	return b.bits.Bytes()
}

// Len returns the number of bytes of pixel data
func (b *Bitmap) Len() int {
	return b.bits.Len()
}

// Cap returns the allocated capacity of the pixel data
func (b *Bitmap) Cap() int {
	return b.bits.Cap()
}

// Stride returns the number of bytes in each row of pixels
func (b *Bitmap) Stride() int {
	return (b.Width + 7) >> 3
}

// Release frees the pixel data and zeroes the dimensions
func (b *Bitmap) Release() {
	b.bits.Release()
	b.Width, b.Height = 0, 0
}
