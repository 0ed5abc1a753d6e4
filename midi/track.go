package midi

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/vochlea/caf/internal/bits"
)

// A Track is the decoded event sequence of a single track chunk, in file
// order, with delta times accumulated into absolute ticks.
type Track []Event

// Meta event types interpreted by this package.
const (
	metaEndOfTrack    = 0x2F
	metaTempo         = 0x51
	metaTimeSignature = 0x58
	metaKeySignature  = 0x59
)

// parseTrack reads and parses the events of a single track chunk. The
// provided io.Reader should limit the amount of data that can be read to the
// track chunk's declared length. Data after an end of track marker is
// ignored.
//
// Track event format (pseudo code):
//
//	type EVENT struct {
//	   delta_time VLQ
//	   // The status byte is omitted for a channel message repeating the
//	   // status of the previous channel message (running status).
//	   status     uint8
//	   data       []byte // length determined by status
//	}
//
// ref: Standard MIDI Files 1.0, track chunks.
func parseTrack(r io.Reader) (track Track, err error) {
	br := bitio.NewReader(r)
	track = Track{}
	var tick uint64
	// Running status; zero when no channel message may be repeated.
	var status byte
	for {
		// Delta time.
		delta, err := bits.ReadVLQ(br)
		if err != nil {
			if err == io.EOF {
				// End of track data.
				return track, nil
			}
			return nil, err
		}
		tick += delta

		// Status byte, or first data byte of a running status channel
		// message.
		b, err := br.ReadByte()
		if err != nil {
			return nil, unexpected(err)
		}
		ndata := 0
		if b&0x80 == 0 {
			if status == 0 {
				return nil, fmt.Errorf("midi.parseTrack: data byte 0x%02X with no running status", b)
			}
			ndata = 1
		} else {
			status = b
		}

		switch {
		case status == 0xFF:
			// Meta event.
			ev, end, err := parseMetaEvent(br, tick)
			if err != nil {
				return nil, err
			}
			status = 0
			if end {
				// Ignore any data after the end of track marker.
				if _, err := io.Copy(io.Discard, br); err != nil {
					return nil, err
				}
				return track, nil
			}
			track = append(track, ev)
		case status == 0xF0 || status == 0xF7:
			// System exclusive event; a VLQ coded length followed by as many
			// data bytes.
			n, err := bits.ReadVLQ(br)
			if err != nil {
				return nil, unexpected(err)
			}
			if err := skipBytes(br, n); err != nil {
				return nil, err
			}
			track = append(track, Event{Tick: tick, Msg: Other{Status: status}})
			status = 0
		case status >= 0x80 && status < 0xF0:
			// Channel message; one data byte for program change (0xC0) and
			// channel pressure (0xD0), two for all other kinds.
			n := 2
			if kind := status & 0xF0; kind == 0xC0 || kind == 0xD0 {
				n = 1
			}
			if err := skipBytes(br, uint64(n-ndata)); err != nil {
				return nil, err
			}
			track = append(track, Event{Tick: tick, Msg: Other{Status: status}})
		default:
			return nil, fmt.Errorf("midi.parseTrack: invalid status byte 0x%02X", status)
		}
	}
}

// parseMetaEvent reads and parses a meta event, the delta time and status
// byte of which have already been read. An end of track marker is reported
// through end and produces no event.
//
// Meta event format (pseudo code):
//
//	type META_EVENT struct {
//	   status uint8 // 0xFF
//	   type   uint8
//	   length VLQ
//	   data   [length]byte
//	}
//
// ref: Standard MIDI Files 1.0, meta events.
func parseMetaEvent(br *bitio.Reader, tick uint64) (ev Event, end bool, err error) {
	typ, err := br.ReadByte()
	if err != nil {
		return ev, false, unexpected(err)
	}
	n, err := bits.ReadVLQ(br)
	if err != nil {
		return ev, false, unexpected(err)
	}
	switch typ {
	case metaEndOfTrack:
		if err := skipBytes(br, n); err != nil {
			return ev, false, err
		}
		return ev, true, nil
	case metaTempo:
		if n != 3 {
			return ev, false, fmt.Errorf("midi.parseMetaEvent: invalid tempo event length; expected 3, got %d", n)
		}
		var buf [3]byte
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return ev, false, unexpected(err)
		}
		micros := uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
		ev = Event{Tick: tick, Msg: Tempo{MicrosPerQuarter: micros}}
	case metaTimeSignature:
		// Only the numerator and the denominator exponent are interpreted;
		// the clock fields that follow are skipped.
		if n < 2 {
			return ev, false, fmt.Errorf("midi.parseMetaEvent: invalid time signature event length; expected >= 2, got %d", n)
		}
		var buf [2]byte
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return ev, false, unexpected(err)
		}
		if err := skipBytes(br, n-2); err != nil {
			return ev, false, err
		}
		ev = Event{Tick: tick, Msg: TimeSignature{Numerator: buf[0], DenominatorExp: buf[1]}}
	case metaKeySignature:
		if n != 2 {
			return ev, false, fmt.Errorf("midi.parseMetaEvent: invalid key signature event length; expected 2, got %d", n)
		}
		var buf [2]byte
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return ev, false, unexpected(err)
		}
		ev = Event{Tick: tick, Msg: KeySignature{SharpsFlats: int8(buf[0]), Minor: buf[1] != 0}}
	default:
		if err := skipBytes(br, n); err != nil {
			return ev, false, err
		}
		ev = Event{Tick: tick, Msg: Other{Status: 0xFF}}
	}
	return ev, false, nil
}

// skipBytes discards n bytes of br.
func skipBytes(br *bitio.Reader, n uint64) error {
	if _, err := io.CopyN(io.Discard, br, int64(n)); err != nil {
		return unexpected(err)
	}
	return nil
}

// unexpected returns io.ErrUnexpectedEOF in place of io.EOF; end of stream
// within an event leaves the event incomplete.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
