// Package meta contains functions for parsing the metadata chunks of CAF
// files.
package meta

import (
	"encoding/binary"
	"io"
)

// A Header contains the type and size of a chunk. It precedes every chunk of
// a CAF file and is 12 bytes long.
//
// Chunk header format (pseudo code):
//
//	type CHUNK_HEADER struct {
//	   chunk_type [4]byte
//	   chunk_size int64
//	}
//
// ref: https://developer.apple.com/library/archive/documentation/MusicAudio/Reference/CAFSpec/CAF_spec/CAF_spec.html
type Header struct {
	// Chunk type.
	Type Type
	// Size in bytes of the chunk data; SizeUnknown when the chunk extends to
	// the end of the stream.
	Size int64
}

// SizeUnknown is the reserved chunk size denoting that a chunk extends to the
// end of the stream. It is only valid for the audio data chunk, which is then
// the last chunk of the file.
const SizeUnknown = -1

// ParseHeader reads and returns the header of a chunk.
func ParseHeader(r io.Reader) (hdr Header, err error) {
	err = binary.Read(r, binary.BigEndian, &hdr)
	return hdr, err
}

// Type is a four character code identifying the chunk type.
type Type uint32

// Chunk types given meaning by this package. All other chunk types pass
// through unparsed.
const (
	// Audio description chunk; describes the encoding of the audio data and
	// is always the first chunk of a CAF file.
	TypeAudioDescription Type = 'd'<<24 | 'e'<<16 | 's'<<8 | 'c'
	// Audio data chunk; never decoded.
	TypeAudioData Type = 'd'<<24 | 'a'<<16 | 't'<<8 | 'a'
	// Information chunk; human readable key value string pairs.
	TypeInformation Type = 'i'<<24 | 'n'<<16 | 'f'<<8 | 'o'
	// MIDI chunk; a Standard MIDI File carrying musical metadata.
	TypeMIDI Type = 'm'<<24 | 'i'<<16 | 'd'<<8 | 'i'
	// User defined chunk; identified by a 16 byte UUID at the start of its
	// data.
	TypeUserDefined Type = 'u'<<24 | 'u'<<16 | 'i'<<8 | 'd'
	// Free space chunk; padding without meaning.
	TypeFree Type = 'f'<<24 | 'r'<<16 | 'e'<<8 | 'e'
)

// String returns the four character code of the chunk type.
func (t Type) String() string {
	buf := []byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
	return string(buf)
}
