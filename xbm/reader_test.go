package xbm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bodgit/xbouncing/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logo = `#define logo_width 16
#define logo_height 2
static unsigned char logo_bits[] = {
   0x01, 0x80,
   0xff, 0x7e};
`

func TestLoad(t *testing.T) {
	tables := []struct {
		name          string
		input         string
		width, height int
		bits          []byte
	}{
		{
			name:   "simple",
			input:  "#define x_width 8\n#define x_height 1\n{ 0x3C, 0xFF, };",
			width:  8,
			height: 1,
			bits:   []byte{0x3c, 0xff},
		},
		{
			name:   "logo",
			input:  logo,
			width:  16,
			height: 2,
			bits:   []byte{0x01, 0x80, 0xff, 0x7e},
		},
		{
			name:   "height first",
			input:  "#define a_height 3\n#define a_width 1\n0x01,0x02,0x03,\n",
			width:  1,
			height: 3,
			bits:   []byte{0x01, 0x02, 0x03},
		},
		{
			name:   "unrelated macros and indentation",
			input:  "/* comment */\n#define FOO 1\n\n\t #define\tx_width   2 \n#define x_hot 4\n  #define x_height 2\n0x01, 0x02,\n",
			width:  2,
			height: 2,
			bits:   []byte{0x01, 0x02},
		},
		{
			name:   "no pixel data",
			input:  "#define x_width 8\n#define x_height 1\n",
			width:  8,
			height: 1,
		},
		{
			name:   "one byte per marker",
			input:  "#define x_width 8\n#define x_height 2\n0xABCD, 0x12,\n",
			width:  8,
			height: 2,
			bits:   []byte{0xab, 0x12},
		},
		{
			name:   "short trailing fragment",
			input:  "#define x_width 8\n#define x_height 1\n{ 0x3c, 0x",
			width:  8,
			height: 1,
			bits:   []byte{0x3c},
		},
		{
			name:   "literals before dimensions are skipped",
			input:  "0x11,\n#define x_width 8\n#define x_height 1\n0x22,\n",
			width:  8,
			height: 1,
			bits:   []byte{0x22},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			var b Bitmap
			w, h, err := Load(strings.NewReader(table.input), &b)
			require.NoError(t, err)
			assert.Equal(t, table.width, w)
			assert.Equal(t, table.height, h)
			assert.Equal(t, table.width, b.Width)
			assert.Equal(t, table.height, b.Height)
			assert.Equal(t, len(table.bits), b.Len())
			if len(table.bits) > 0 {
				assert.Equal(t, table.bits, b.Bits())
			}
			assert.Equal(t, 0, b.Cap()%buffer.GrowStep)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tables := []struct {
		name  string
		input string
		err   error
	}{
		{
			name:  "empty",
			input: "",
			err:   ErrNoDimensions,
		},
		{
			name:  "no dimensions",
			input: "static unsigned char x_bits[] = { 0x00, };\n",
			err:   ErrNoDimensions,
		},
		{
			name:  "missing height",
			input: "#define x_width 8\n0x00,\n",
			err:   ErrNoDimensions,
		},
		{
			name:  "missing value",
			input: "#define x_width\n#define x_height 1\n",
			err:   ErrNoDimensions,
		},
		{
			name:  "zero width",
			input: "#define x_width 0\n#define x_height 1\n",
			err:   ErrZeroDimension,
		},
		{
			name:  "zero height after width",
			input: "#define x_width 8\n#define x_height 0\n",
			err:   ErrZeroDimension,
		},
		{
			name:  "bad first digit",
			input: "#define x_width 8\n#define x_height 1\n0x3c, 0xg1,\n",
			err:   ErrBadLiteral,
		},
		{
			name:  "bad second digit",
			input: "#define x_width 8\n#define x_height 1\n0x3c, 0x1z,\n",
			err:   ErrBadLiteral,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b, err := NewBitmap(1, 1, []byte{0xaa})
			require.NoError(t, err)

			_, _, err = Load(strings.NewReader(table.input), b)
			assert.True(t, errors.Is(err, table.err))
			assert.True(t, errors.Is(err, ErrMalformed))

			assert.Equal(t, 1, b.Width)
			assert.Equal(t, 1, b.Height)
			assert.Equal(t, []byte{0xaa}, b.Bits())
		})
	}
}

func TestLoadReplaces(t *testing.T) {
	b, err := NewBitmap(1, 1, []byte{0xaa, 0xbb, 0xcc})
	require.NoError(t, err)

	_, _, err = Load(strings.NewReader(logo), b)
	require.NoError(t, err)

	assert.Equal(t, 16, b.Width)
	assert.Equal(t, 2, b.Height)
	assert.Equal(t, []byte{0x01, 0x80, 0xff, 0x7e}, b.Bits())

	b.Release()
	assert.Equal(t, 0, b.Width)
	assert.Equal(t, 0, b.Height)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap())
}

func TestLoadWithoutBitmap(t *testing.T) {
	w, h, err := Load(strings.NewReader(logo), nil)
	require.NoError(t, err)
	assert.Equal(t, 16, w)
	assert.Equal(t, 2, h)

	_, _, err = Load(strings.NewReader("#define x_width 8\n#define x_height 1\n0xzz,\n"), nil)
	assert.True(t, errors.Is(err, ErrBadLiteral))
}

func TestLoadLimit(t *testing.T) {
	input := new(bytes.Buffer)
	input.WriteString("#define big_width 8\n#define big_height 4097\n")
	for i := 0; i < buffer.GrowStep+1; i++ {
		input.WriteString("0x55,\n")
	}

	b, err := NewBitmap(1, 1, []byte{0xaa})
	require.NoError(t, err)

	_, _, err = LoadLimit(bytes.NewReader(input.Bytes()), b, buffer.GrowStep)
	assert.True(t, errors.Is(err, ErrAllocation))
	assert.False(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, []byte{0xaa}, b.Bits())

	_, _, err = LoadLimit(bytes.NewReader(input.Bytes()), b, 0)
	require.NoError(t, err)
	assert.Equal(t, buffer.GrowStep+1, b.Len())
	assert.Equal(t, 2*buffer.GrowStep, b.Cap())
}

func TestLineReader(t *testing.T) {
	long := strings.Repeat("a", 5000)
	lr := newLineReader(strings.NewReader(long + "\nshort"))

	line, err := lr.next()
	require.NoError(t, err)
	assert.Equal(t, lineSize-1, len(line))

	line, err = lr.next()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 5000-(lineSize-1))+"\n", string(line))

	line, err = lr.next()
	require.NoError(t, err)
	assert.Equal(t, "short", string(line))

	_, err = lr.next()
	assert.Equal(t, io.EOF, err)
}

func TestLongLineOfLiterals(t *testing.T) {
	// 1000 literals on one line span several reads of the line buffer
	body := strings.Repeat("0x5a, ", 1000)
	input := "#define x_width 8\n#define x_height 1000\n" + body + "\n"

	b, err := DecodeBitmap(strings.NewReader(input))
	require.NoError(t, err)

	// Literals cut in half at a line buffer boundary are lost
	assert.LessOrEqual(t, b.Len(), 1000)
	assert.Greater(t, b.Len(), 990)
	for _, c := range b.Bits() {
		assert.Equal(t, byte(0x5a), c)
	}
}

func TestExtractBytes(t *testing.T) {
	b, err := ExtractBytes(strings.NewReader("0x01, 0x02,\nnothing here\n0x03,"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, b)

	b, err = ExtractBytes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestParseUint(t *testing.T) {
	tables := []struct {
		input string
		value int
		ok    bool
	}{
		{"8", 8, true},
		{"  42\n", 42, true},
		{"+7", 7, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"99999999999", 0, false},
	}

	for _, table := range tables {
		v, ok := parseUint([]byte(table.input))
		assert.Equal(t, table.ok, ok, table.input)
		assert.Equal(t, table.value, v, table.input)
	}
}
