package meta

import (
	"io"

	"github.com/mewkiz/pkg/readerutil"
)

// readBytes reads and returns exactly n bytes from the provided io.Reader.
func readBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readString reads and returns a NUL terminated string from the provided
// io.Reader. The NUL byte is consumed but not part of the returned string. At
// end of stream the bytes read so far are returned along with io.EOF.
func readString(r io.Reader) (string, error) {
	var buf []byte
	for {
		b, err := readerutil.ReadByte(r)
		if err != nil {
			return string(buf), err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}
