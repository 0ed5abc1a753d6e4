package meta

import (
	"encoding/base64"
	"io"
	"strconv"

	"github.com/vochlea/caf/midi"
)

// Well known keys contributed by the MIDI chunk parser.
const (
	KeyMIDIData              = "midiDataBase64"
	KeyTempo                 = "tempo"
	KeyTempoSequence         = "tempo sequence"
	KeyTimeSignature         = "time signature"
	KeyTimeSignatureSequence = "time signature sequence"
	KeyKeySignature          = "key signature"
	KeyKeySignatureSequence  = "key signature sequence"
)

// Key names indexed by the number of sharps or flats of the key signature,
// shifted from [-7, 7] to [0, 14].
var (
	majorKeyNames = [15]string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
	minorKeyNames = [15]string{"Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}
)

// ParseMIDI parses a MIDI chunk body of the given size and returns the tags
// derived from its events; a base64 copy of the chunk body under KeyMIDIData,
// and the tempo, time signature and key signature keys described at the
// derive functions. A body that fails to decode as a Standard MIDI File
// contributes no tags, not even the base64 copy. The position of rs always
// ends up at the end of the chunk body.
func ParseMIDI(rs io.ReadSeeker, size int64) (tags *Tags, err error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end := start + size

	// Read the chunk body, clamped to the remaining stream length; the chunk
	// size of a truncated file may overstate it.
	streamEnd, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	n := size
	if rem := streamEnd - start; n > rem {
		n = rem
	}
	if n < 0 {
		n = 0
	}
	body, err := readBytes(rs, int(n))
	if err != nil {
		return nil, err
	}

	tags = new(Tags)
	if file, err := midi.Decode(body); err == nil {
		tags.Add(KeyMIDIData, base64.StdEncoding.EncodeToString(body))
		events := file.Events()
		deriveTempo(tags, events)
		deriveTimeSignature(tags, events)
		deriveKeySignature(tags, events)
	}

	// Land on the chunk boundary.
	if _, err := rs.Seek(end, io.SeekStart); err != nil {
		return nil, err
	}
	return tags, nil
}

// derive reduces the qualifying events of one message kind to tags. The
// formatted value of the first qualifying event is stored under key. When
// more than one event qualifies, every qualifying event appends
// "<value>,<tick>;" under seqKey, in event order; with one or no qualifying
// events seqKey is not set.
func derive(tags *Tags, events []midi.Event, key, seqKey string, format func(midi.Message) (string, bool)) {
	var first, seq string
	n := 0
	for _, event := range events {
		value, ok := format(event.Msg)
		if !ok {
			continue
		}
		if n == 0 {
			first = value
		}
		n++
		seq += value + "," + strconv.FormatUint(event.Tick, 10) + ";"
	}
	if n == 0 {
		return
	}
	tags.Add(key, first)
	if n > 1 {
		tags.Add(seqKey, seq)
	}
}

// deriveTempo reduces the tempo events with a positive tempo to KeyTempo and
// KeyTempoSequence. Tempos are rendered in beats per minute.
func deriveTempo(tags *Tags, events []midi.Event) {
	derive(tags, events, KeyTempo, KeyTempoSequence, func(msg midi.Message) (string, bool) {
		tempo, ok := msg.(midi.Tempo)
		if !ok {
			return "", false
		}
		secs := tempo.SecondsPerQuarter()
		if secs <= 0 {
			return "", false
		}
		return strconv.FormatFloat(60.0/secs, 'f', -1, 64), true
	})
}

// deriveTimeSignature reduces the time signature events to KeyTimeSignature
// and KeyTimeSignatureSequence. Time signatures are rendered as
// "<numerator>/<denominator>".
func deriveTimeSignature(tags *Tags, events []midi.Event) {
	derive(tags, events, KeyTimeSignature, KeyTimeSignatureSequence, func(msg midi.Message) (string, bool) {
		sig, ok := msg.(midi.TimeSignature)
		if !ok {
			return "", false
		}
		return strconv.Itoa(int(sig.Numerator)) + "/" + strconv.Itoa(sig.Denominator()), true
	})
}

// deriveKeySignature reduces the key signature events to KeyKeySignature and
// KeyKeySignatureSequence. Keys are rendered by name, with an "m" suffix for
// minor keys; sharps or flats counts outside [-7, 7] are clamped into range.
func deriveKeySignature(tags *Tags, events []midi.Event) {
	derive(tags, events, KeyKeySignature, KeyKeySignatureSequence, func(msg midi.Message) (string, bool) {
		sig, ok := msg.(midi.KeySignature)
		if !ok {
			return "", false
		}
		idx := int(sig.SharpsFlats) + 7
		if idx < 0 {
			idx = 0
		} else if idx > 14 {
			idx = 14
		}
		if sig.Minor {
			return minorKeyNames[idx] + "m", true
		}
		return majorKeyNames[idx], true
	})
}
