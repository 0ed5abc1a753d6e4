package meta

import (
	"bytes"
	"encoding/binary"
	"io"
)

// uuidTags identifies the user defined chunk layout that stores extended
// metadata as NUL terminated key value string pairs.
var uuidTags = [16]byte{
	0x29, 0x81, 0x92, 0x73, 0xB5, 0xBF, 0x4A, 0xEF,
	0xB7, 0x8D, 0x62, 0xD1, 0xEF, 0x90, 0xBB, 0x2C,
}

// ParseUUID parses and returns the tags of a user defined chunk body of the
// given size. Chunks with an unrecognized UUID contribute no tags, and a
// malformed entry count never reads past the chunk boundary. The position of
// rs always ends up at the end of the chunk body.
//
// User defined chunk format (pseudo code):
//
//	type USER_DEFINED_CHUNK struct {
//	   uuid        [16]byte
//	   entry_count uint32
//	   entries     [entry_count]entry
//	}
//
//	type entry struct {
//	   // key and value are NUL terminated strings.
//	   key   string
//	   value string
//	}
//
// ref: https://developer.apple.com/library/archive/documentation/MusicAudio/Reference/CAFSpec/CAF_spec/CAF_spec.html
func ParseUUID(rs io.ReadSeeker, size int64) (tags *Tags, err error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end := start + size
	tags = new(Tags)

	// UUID (size: 16 bytes).
	uuid, err := readBytes(rs, 16)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			_, err = rs.Seek(end, io.SeekStart)
			return tags, err
		}
		return nil, err
	}
	if !bytes.Equal(uuid, uuidTags[:]) {
		// Unrecognized UUID; skip the chunk body.
		if _, err := rs.Seek(end, io.SeekStart); err != nil {
			return nil, err
		}
		return tags, nil
	}

	// Entry count.
	var entryCount uint32
	if err := binary.Read(rs, binary.BigEndian, &entryCount); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			_, err = rs.Seek(end, io.SeekStart)
			return tags, err
		}
		return nil, err
	}

	// Entries, bounded by the chunk size.
	for i := uint32(0); i < entryCount; i++ {
		pos, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if pos >= end {
			break
		}
		key, kerr := readString(rs)
		if kerr == io.EOF && len(key) == 0 {
			break
		}
		if kerr != nil && kerr != io.EOF {
			return nil, kerr
		}
		value, verr := readString(rs)
		if verr != nil && verr != io.EOF {
			return nil, verr
		}
		tags.Add(key, value)
		if kerr == io.EOF || verr == io.EOF {
			break
		}
	}

	// Land on the chunk boundary.
	if _, err := rs.Seek(end, io.SeekStart); err != nil {
		return nil, err
	}
	return tags, nil
}
