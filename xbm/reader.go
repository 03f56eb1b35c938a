package xbm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/bodgit/xbouncing/buffer"
)

const (
	defineToken  = "#define"
	widthSuffix  = "_width"
	heightSuffix = "_height"
	hexMarker    = "0x"
	hexLiteral   = len(hexMarker) + 2
)

// lineReader returns one line at a time. A line longer than lineSize-1 bytes
// is split and the remainder is returned as the following line.
type lineReader struct {
	r   *bufio.Reader
	buf [lineSize]byte
}

func newLineReader(r io.Reader) *lineReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &lineReader{r: br}
	}
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line including any trailing newline, or io.EOF once
// the input is exhausted
func (lr *lineReader) next() ([]byte, error) {
	n := 0
	for n < lineSize-1 {
		c, err := lr.r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				break
			}
			return nil, err
		}
		lr.buf[n] = c
		n++
		if c == '\n' {
			break
		}
	}
	return lr.buf[:n], nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func trimSpace(b []byte) []byte {
	return bytes.TrimLeftFunc(b, func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	})
}

// parseUint reads an unsigned decimal number at the start of b, after any
// whitespace
func parseUint(b []byte) (int, bool) {
	b = trimSpace(b)
	if len(b) > 0 && b[0] == '+' {
		b = b[1:]
	}
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	v, err := strconv.ParseUint(string(b[:i]), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

type decoder struct {
	lr *lineReader

	width, height int
}

// readDimensions consumes lines until both the width and height macros have
// been seen
func (d *decoder) readDimensions() error {
	var hasWidth, hasHeight bool

	for {
		line, err := d.lr.next()
		if err != nil {
			if err == io.EOF {
				return ErrNoDimensions
			}
			return err
		}

		l := trimSpace(line)
		if len(l) == 0 || !bytes.HasPrefix(l, []byte(defineToken)) {
			continue
		}
		l = trimSpace(l[len(defineToken):])

		i := bytes.IndexFunc(l, func(r rune) bool {
			return r < 0x80 && isSpace(byte(r))
		})
		if i <= 0 {
			continue
		}
		name, value := l[:i], l[i+1:]

		var has *bool
		var dim *int
		switch {
		case bytes.HasSuffix(name, []byte(widthSuffix)):
			has, dim = &hasWidth, &d.width
		case bytes.HasSuffix(name, []byte(heightSuffix)):
			has, dim = &hasHeight, &d.height
		default:
			continue
		}

		*dim, *has = parseUint(value)
		if *has && *dim == 0 {
			return ErrZeroDimension
		}

		if hasWidth && hasHeight {
			return nil
		}
	}
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// extractLine decodes every hex literal in line, passing each byte to emit
func extractLine(line []byte, emit func(byte) error) error {
	for p := 0; p < len(line); {
		i := bytes.Index(line[p:], []byte(hexMarker))
		if i < 0 {
			break
		}
		p += i

		// Nothing after a short fragment can hold a literal either
		if len(line)-p < hexLiteral {
			break
		}

		hi, ok1 := fromHex(line[p+2])
		lo, ok2 := fromHex(line[p+3])
		if !ok1 || !ok2 {
			return fmt.Errorf("%w %q", ErrBadLiteral, line[p:p+hexLiteral])
		}

		if err := emit(hi<<4 | lo); err != nil {
			return err
		}

		// Skip the separator following the literal
		p += hexLiteral + 1
	}
	return nil
}

// readBits appends the hex literals in the remaining lines to b
func (d *decoder) readBits(b *Bitmap) error {
	emit := func(c byte) error {
		if err := b.bits.Append(c); err != nil {
			return fmt.Errorf("%w: %v", ErrAllocation, err)
		}
		return nil
	}

	for {
		line, err := d.lr.next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := extractLine(line, emit); err != nil {
			return err
		}
	}
}

func (d *decoder) decode(r io.Reader, out *Bitmap, limit int) error {
	d.lr = newLineReader(r)

	if err := d.readDimensions(); err != nil {
		return err
	}

	tmp := Bitmap{bits: buffer.Buffer{Limit: limit}}
	if err := d.readBits(&tmp); err != nil {
		tmp.Release()
		return err
	}

	if out == nil {
		tmp.Release()
		return nil
	}

	out.Release()
	*out = tmp
	out.Width, out.Height = d.width, d.height

	return nil
}

// Load reads an XBM image from r. On success any pixel data previously held
// by b is released and replaced, b may be nil in which case the pixel data
// is validated and discarded. On failure b is left untouched. The width and
// height are returned whether or not b is nil.
func Load(r io.Reader, b *Bitmap) (int, int, error) {
	return LoadLimit(r, b, DefaultLimit)
}

// LoadLimit is like Load but its pixel data may be at most limit bytes, zero
// means unlimited
func LoadLimit(r io.Reader, b *Bitmap, limit int) (int, int, error) {
	var d decoder
	if err := d.decode(r, b, limit); err != nil {
		return 0, 0, err
	}
	return d.width, d.height, nil
}

// DecodeBitmap reads an XBM image from r and returns it as a Bitmap
func DecodeBitmap(r io.Reader) (*Bitmap, error) {
	b := new(Bitmap)
	if _, _, err := Load(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ExtractBytes decodes every hex literal found in r, without looking for
// dimensions first
func ExtractBytes(r io.Reader) ([]byte, error) {
	d := decoder{lr: newLineReader(r)}
	var tmp Bitmap
	if err := d.readBits(&tmp); err != nil {
		return nil, err
	}
	return append([]byte(nil), tmp.Bits()...), nil
}
