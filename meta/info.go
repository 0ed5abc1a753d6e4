package meta

import (
	"encoding/binary"
	"io"
)

// ParseInfo parses and returns the tags of an information chunk body. The
// chunk's declared size is trusted; a truncated chunk yields the pairs read
// up to the end of the stream, the last of which may be incomplete.
//
// Information chunk format (pseudo code):
//
//	type INFORMATION_CHUNK struct {
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
func ParseInfo(r io.Reader) (tags *Tags, err error) {
	tags = new(Tags)

	// Entry count.
	var entryCount uint32
	if err := binary.Read(r, binary.BigEndian, &entryCount); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return tags, nil
		}
		return nil, err
	}

	// Entries.
	for i := uint32(0); i < entryCount; i++ {
		key, kerr := readString(r)
		if kerr == io.EOF && len(key) == 0 {
			break
		}
		if kerr != nil && kerr != io.EOF {
			return nil, kerr
		}
		value, verr := readString(r)
		if verr != nil && verr != io.EOF {
			return nil, verr
		}
		tags.Add(key, value)
		if kerr == io.EOF || verr == io.EOF {
			break
		}
	}
	return tags, nil
}
