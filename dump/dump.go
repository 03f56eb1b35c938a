/*
Package dump formats XBM pixel data as rows of space separated hex pairs and
reads it back.
*/
package dump

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/xbouncing/xbm"
)

// DefaultColumns is the number of bytes written on each line
const DefaultColumns = 24

var errColumns = errors.New("dump: columns must be positive")

// Write writes b to w, columns bytes per line. Every line, including a final
// partial one, ends with a newline.
func Write(w io.Writer, b []byte, columns int) error {
	if columns <= 0 {
		return errColumns
	}

	bw := bufio.NewWriter(w)
	for i, c := range b {
		sep := byte(' ')
		if (i+1)%columns == 0 {
			sep = '\n'
		}
		fmt.Fprintf(bw, "%02x%c", c, sep)
	}
	if len(b)%columns != 0 {
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Read parses the output of Write
func Read(r io.Reader) ([]byte, error) {
	var b bytes.Buffer
	s := bufio.NewScanner(r)
	for s.Scan() {
		for _, f := range strings.Fields(s.Text()) {
			fmt.Fprintf(&b, "0x%s,", f)
		}
		b.WriteByte('\n')
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return xbm.ExtractBytes(&b)
}
