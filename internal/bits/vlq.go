package bits

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// maxVLQLen is the maximum length in bytes of a variable-length quantity.
const maxVLQLen = 4

// ReadVLQ decodes and returns a variable-length quantity, which stores an
// unsigned integer big-endian in groups of 7 bits, where the most significant
// bit of each byte is set when further bytes follow. Quantities are at most
// four bytes long.
//
// Examples of VLQ coded binary on the left and decoded hexadecimal on the
// right:
//
//	00000000                            => 0x00
//	01111111                            => 0x7F
//	10000001 00000000                   => 0x80
//	11000000 00000000                   => 0x2000
//	11111111 11111111 11111111 01111111 => 0xFFFFFFF
//
// ref: Standard MIDI Files 1.0, variable-length quantities.
func ReadVLQ(br *bitio.Reader) (x uint64, err error) {
	for i := 0; ; i++ {
		if i == maxVLQLen {
			return 0, fmt.Errorf("bits.ReadVLQ: quantity exceeds %d bytes", maxVLQLen)
		}
		more, err := br.ReadBits(1)
		if err != nil {
			if i > 0 && err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		bits, err := br.ReadBits(7)
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		x = x<<7 | bits
		if more == 0 {
			break
		}
	}
	return x, nil
}

// WriteVLQ encodes x as a variable-length quantity, which stores an unsigned
// integer big-endian in groups of 7 bits, where the most significant bit of
// each byte is set when further bytes follow.
//
// Examples of decoded hexadecimal on the left and VLQ coded binary on the
// right:
//
//	0x00      => 00000000
//	0x7F      => 01111111
//	0x80      => 10000001 00000000
//	0x2000    => 11000000 00000000
//	0xFFFFFFF => 11111111 11111111 11111111 01111111
func WriteVLQ(bw *bitio.Writer, x uint64) error {
	n := 1
	for v := x >> 7; v > 0; v >>= 7 {
		n++
	}
	if n > maxVLQLen {
		return fmt.Errorf("bits.WriteVLQ: quantity 0x%X exceeds %d bytes", x, maxVLQLen)
	}
	for i := n - 1; i >= 0; i-- {
		more := uint64(0)
		if i > 0 {
			more = 1
		}
		if err := bw.WriteBits(more, 1); err != nil {
			return err
		}
		bits := x >> (7 * uint(i)) & 0x7F
		if err := bw.WriteBits(bits, 7); err != nil {
			return err
		}
	}
	return nil
}
