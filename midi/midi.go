// Package midi implements decoding of Standard MIDI Files, as far as needed
// to recover the musical metadata of a file; tempo, time signature and key
// signature meta events are decoded into typed messages, all other events are
// retained with their status byte only.
//
// A Standard MIDI File consists of a header chunk followed by track chunks.
// Each chunk is preceded by a four character signature and a 32-bit length.
// Chunks with an unknown signature are permitted and skipped.
//
// ref: Standard MIDI Files 1.0.
package midi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// A File contains the decoded track event sequences of a Standard MIDI File.
type File struct {
	// File format; 0 (single track), 1 (simultaneous tracks) or 2
	// (independent sequences).
	Format uint16
	// Time division of the file; ticks per quarter note when the most
	// significant bit is clear, an SMPTE frame coding otherwise. Ticks are
	// reported as stored, in either coding.
	Division uint16
	// One event sequence per track chunk, in file order.
	Tracks []Track
}

// Chunk signatures of a Standard MIDI File.
var (
	headerSignature = [4]byte{'M', 'T', 'h', 'd'}
	trackSignature  = [4]byte{'M', 'T', 'r', 'k'}
)

// A chunkHeader precedes every chunk of a Standard MIDI File.
type chunkHeader struct {
	// Chunk signature.
	Signature [4]byte
	// Length in bytes of the chunk data.
	Length uint32
}

// Decode decodes and returns the Standard MIDI File stored in data.
//
// Header chunk format (pseudo code):
//
//	type HEADER_CHUNK struct {
//	   signature [4]byte // "MThd"
//	   length    uint32  // at least 6; extension bytes are skipped
//	   format    uint16
//	   ntracks   uint16
//	   division  uint16
//	}
//
// ref: Standard MIDI Files 1.0, header chunks.
func Decode(data []byte) (file *File, err error) {
	r := bytes.NewReader(data)

	// Header chunk.
	var hdr chunkHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Signature != headerSignature {
		return nil, fmt.Errorf("midi.Decode: invalid signature; expected %q, got %q", headerSignature[:], hdr.Signature[:])
	}
	if hdr.Length < 6 {
		return nil, fmt.Errorf("midi.Decode: invalid header chunk length; expected >= 6, got %d", hdr.Length)
	}
	var fields struct {
		Format   uint16
		NTracks  uint16
		Division uint16
	}
	if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
		return nil, err
	}
	if _, err := r.Seek(int64(hdr.Length)-6, io.SeekCurrent); err != nil {
		return nil, err
	}
	file = &File{Format: fields.Format, Division: fields.Division}

	// Track chunks.
	for i := 0; i < int(fields.NTracks); {
		var th chunkHeader
		if err := binary.Read(r, binary.BigEndian, &th); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("midi.Decode: unexpected end of stream; expected %d track chunks, got %d", fields.NTracks, i)
			}
			return nil, err
		}
		if th.Signature != trackSignature {
			// Alien chunks are skipped.
			if _, err := r.Seek(int64(th.Length), io.SeekCurrent); err != nil {
				return nil, err
			}
			continue
		}
		track, err := parseTrack(io.LimitReader(r, int64(th.Length)))
		if err != nil {
			return nil, err
		}
		file.Tracks = append(file.Tracks, track)
		i++
	}
	return file, nil
}
