// Package caf provides access to the metadata of CAF (Core Audio Format)
// files. [1]
//
// The basic structure of a CAF file is:
//   - The file header; the four byte string signature "caff", a file version
//     and file flags.
//   - A sequence of chunks, each preceded by a header with a four character
//     type code and a signed 64-bit size.
//
// The metadata of interest lives in the information, user defined and MIDI
// chunks; the audio data chunk is never decoded. Scanning a stream never
// alters it; the stream position is restored when the scan is done.
//
// [1]: https://developer.apple.com/library/archive/documentation/MusicAudio/Reference/CAFSpec/CAF_spec/CAF_spec.html
package caf

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/vochlea/caf/meta"
)

// ErrFormat is returned when a stream does not begin with a CAF file header.
// The stream may still be a valid audio file of another format.
var ErrFormat = errors.New("caf: invalid file signature")

// chunkHeaderLen is the length in bytes of a chunk header.
const chunkHeaderLen = 12

// A Stream contains the metadata of a CAF file.
type Stream struct {
	// File format version.
	Version uint16
	// File format flags.
	Flags uint16
	// Audio description chunk body, or nil when the file contains none.
	Desc *meta.AudioDescription
	// Metadata extracted from the information, user defined and MIDI chunks.
	Tags *meta.Tags
	// Header of each chunk encountered, in stream order.
	Chunks []meta.Header
}

// ParseFile reads the file at the provided path and returns its parsed
// metadata.
func ParseFile(path string) (stream *Stream, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads the CAF stream at the current position of rs and returns its
// parsed metadata. The position of rs is restored before returning, whether
// or not the stream was recognized; parsing twice yields identical results.
//
// A stream without a CAF file header returns ErrFormat and no metadata. A
// malformed chunk ends the scan early with the metadata collected up to that
// point; unknown chunk types are skipped and never end the scan.
func Parse(rs io.ReadSeeker) (stream *Stream, err error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, serr := rs.Seek(start, io.SeekStart)
		if err == nil && serr != nil {
			stream, err = nil, serr
		}
	}()

	stream = &Stream{Tags: new(meta.Tags)}
	if err := stream.parseFileHeader(rs); err != nil {
		return nil, err
	}
	if err := stream.parseChunks(rs); err != nil {
		return nil, err
	}
	return stream, nil
}

// parseFileHeader reads and verifies the CAF file header.
//
// File header format (pseudo code):
//
//	type FILE_HEADER struct {
//	   file_type    [4]byte // "caff"
//	   file_version uint16
//	   file_flags   uint16
//	}
func (stream *Stream) parseFileHeader(r io.Reader) error {
	// signature is present at the beginning of each CAF file.
	const signature = "caff"

	// Verify "caff" signature (size: 4 bytes).
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrFormat
		}
		return err
	}
	if string(buf) != signature {
		return ErrFormat
	}

	// File version and file flags.
	var fields struct {
		Version uint16
		Flags   uint16
	}
	if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrFormat
		}
		return err
	}
	stream.Version = fields.Version
	stream.Flags = fields.Flags
	return nil
}

// parseChunks reads the chunks of the stream, dispatching each on its type.
// The scan ends at the end of the stream, at an audio data chunk of unknown
// size, or at a chunk too corrupt to step over.
func (stream *Stream) parseChunks(rs io.ReadSeeker) error {
	// Record the end of the stream for the exhaustion checks.
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return err
	}

	for {
		pos, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		if pos >= end {
			break
		}

		// Read chunk header.
		hdr, err := meta.ParseHeader(rs)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// Truncated chunk header; keep the metadata collected so far.
				return nil
			}
			return err
		}
		stream.Chunks = append(stream.Chunks, hdr)
		if hdr.Size < 0 && !(hdr.Type == meta.TypeAudioData && hdr.Size == meta.SizeUnknown) {
			// Corrupt chunk size; stepping over it could move the scan
			// backwards, so end the scan here.
			return nil
		}

		// Parse chunk body.
		switch hdr.Type {
		case meta.TypeAudioDescription:
			desc, err := meta.ParseAudioDescription(rs)
			if err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return nil
				}
				return err
			}
			stream.Desc = desc
			// Land on the chunk boundary; the chunk may declare trailing
			// bytes beyond the description fields.
			if _, err := rs.Seek(pos+chunkHeaderLen+hdr.Size, io.SeekStart); err != nil {
				return err
			}
		case meta.TypeUserDefined:
			tags, err := meta.ParseUUID(rs, hdr.Size)
			if err != nil {
				return err
			}
			stream.Tags.Merge(tags)
		case meta.TypeAudioData:
			if hdr.Size == meta.SizeUnknown {
				// The chunk extends to the end of the stream and is defined
				// to be the last chunk of the file.
				return nil
			}
			if _, err := rs.Seek(hdr.Size, io.SeekCurrent); err != nil {
				return err
			}
		case meta.TypeMIDI:
			tags, err := meta.ParseMIDI(rs, hdr.Size)
			if err != nil {
				return err
			}
			stream.Tags.Merge(tags)
		case meta.TypeInformation:
			tags, err := meta.ParseInfo(rs)
			if err != nil {
				return err
			}
			stream.Tags.Merge(tags)
			// Land on the chunk boundary; the entries read may not fill the
			// declared chunk size exactly.
			if _, err := rs.Seek(pos+chunkHeaderLen+hdr.Size, io.SeekStart); err != nil {
				return err
			}
		default:
			// Unknown chunk types are never fatal; skip the chunk body.
			if _, err := rs.Seek(hdr.Size, io.SeekCurrent); err != nil {
				return err
			}
		}
	}
	return nil
}
