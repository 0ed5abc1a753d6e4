package midi_test

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/vochlea/caf/midi"
)

// buildSMF assembles a Standard MIDI File with the provided header fields and
// track chunk data.
func buildSMF(format, division uint16, tracks ...[]byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("MThd")
	binary.Write(buf, binary.BigEndian, uint32(6))
	binary.Write(buf, binary.BigEndian, format)
	binary.Write(buf, binary.BigEndian, uint16(len(tracks)))
	binary.Write(buf, binary.BigEndian, division)
	for _, track := range tracks {
		buf.WriteString("MTrk")
		binary.Write(buf, binary.BigEndian, uint32(len(track)))
		buf.Write(track)
	}
	return buf.Bytes()
}

var golden = []struct {
	name string
	data []byte
	want *midi.File
}{
	// i=0: tempo of 500000 microseconds per quarter note.
	{
		name: "tempo",
		data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.Tempo{MicrosPerQuarter: 500000}}},
		}},
	},
	// i=1: 6/8 time signature; the clock fields are skipped.
	{
		name: "time signature",
		data: buildSMF(0, 96, []byte{
			0x00, 0xFF, 0x58, 0x04, 0x06, 0x03, 0x24, 0x08,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 96, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.TimeSignature{Numerator: 6, DenominatorExp: 3}}},
		}},
	},
	// i=2: F sharp minor key signature; three sharps, minor mode.
	{
		name: "key signature",
		data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x59, 0x02, 0x03, 0x01,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.KeySignature{SharpsFlats: 3, Minor: true}}},
		}},
	},
	// i=3: note on events with running status; ticks accumulate.
	{
		name: "running status",
		data: buildSMF(0, 480, []byte{
			0x00, 0x90, 0x3C, 0x64,
			0x40, 0x3E, 0x64,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{
				{Tick: 0, Msg: midi.Other{Status: 0x90}},
				{Tick: 64, Msg: midi.Other{Status: 0x90}},
			},
		}},
	},
	// i=4: program change carries a single data byte.
	{
		name: "program change",
		data: buildSMF(0, 480, []byte{
			0x00, 0xC0, 0x05,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.Other{Status: 0xC0}}},
		}},
	},
	// i=5: system exclusive event; the payload is skipped.
	{
		name: "sysex",
		data: buildSMF(0, 480, []byte{
			0x00, 0xF0, 0x03, 0x01, 0x02, 0x03,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.Other{Status: 0xF0}}},
		}},
	},
	// i=6: uninterpreted meta event; only the status byte is retained.
	{
		name: "sequencer specific",
		data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x7F, 0x02, 0xAA, 0xBB,
			0x00, 0xFF, 0x2F, 0x00,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{
			{{Tick: 0, Msg: midi.Other{Status: 0xFF}}},
		}},
	},
	// i=7: data after the end of track marker is ignored.
	{
		name: "early end of track",
		data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x2F, 0x00,
			0xDE, 0xAD, 0xBE, 0xEF,
		}),
		want: &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{{}}},
	},
	// i=8: two tracks; delta times span multiple VLQ bytes.
	{
		name: "two tracks",
		data: buildSMF(1, 480,
			[]byte{
				0x00, 0xFF, 0x51, 0x03, 0x0F, 0x42, 0x40,
				0x83, 0x60, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
				0x00, 0xFF, 0x2F, 0x00,
			},
			[]byte{
				0x81, 0x40, 0xFF, 0x58, 0x04, 0x03, 0x02, 0x18, 0x08,
				0x00, 0xFF, 0x2F, 0x00,
			},
		),
		want: &midi.File{Format: 1, Division: 480, Tracks: []midi.Track{
			{
				{Tick: 0, Msg: midi.Tempo{MicrosPerQuarter: 1000000}},
				{Tick: 480, Msg: midi.Tempo{MicrosPerQuarter: 500000}},
			},
			{
				{Tick: 192, Msg: midi.TimeSignature{Numerator: 3, DenominatorExp: 2}},
			},
		}},
	},
}

func TestDecode(t *testing.T) {
	for i, g := range golden {
		file, err := midi.Decode(g.data)
		if err != nil {
			t.Errorf("i=%d (%s): error decoding file: %v", i, g.name, err)
			continue
		}
		if !reflect.DeepEqual(g.want, file) {
			t.Errorf("i=%d (%s): file mismatch; expected %#v, got %#v", i, g.name, g.want, file)
			continue
		}
	}
}

func TestDecodeHeaderExtension(t *testing.T) {
	// A header chunk longer than 6 bytes; the extension bytes are skipped.
	buf := new(bytes.Buffer)
	buf.WriteString("MThd")
	binary.Write(buf, binary.BigEndian, uint32(8))
	binary.Write(buf, binary.BigEndian, uint16(0))
	binary.Write(buf, binary.BigEndian, uint16(1))
	binary.Write(buf, binary.BigEndian, uint16(480))
	buf.Write([]byte{0xAB, 0xCD})
	buf.WriteString("MTrk")
	binary.Write(buf, binary.BigEndian, uint32(4))
	buf.Write([]byte{0x00, 0xFF, 0x2F, 0x00})

	file, err := midi.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("error decoding file: %v", err)
	}
	want := &midi.File{Format: 0, Division: 480, Tracks: []midi.Track{{}}}
	if !reflect.DeepEqual(want, file) {
		t.Fatalf("file mismatch; expected %#v, got %#v", want, file)
	}
}

func TestDecodeAlienChunk(t *testing.T) {
	// A chunk with an unknown signature between the header chunk and the
	// track chunk is skipped.
	buf := new(bytes.Buffer)
	buf.WriteString("MThd")
	binary.Write(buf, binary.BigEndian, uint32(6))
	binary.Write(buf, binary.BigEndian, uint16(0))
	binary.Write(buf, binary.BigEndian, uint16(1))
	binary.Write(buf, binary.BigEndian, uint16(480))
	buf.WriteString("XFIR")
	binary.Write(buf, binary.BigEndian, uint32(3))
	buf.Write([]byte{0x01, 0x02, 0x03})
	buf.WriteString("MTrk")
	binary.Write(buf, binary.BigEndian, uint32(4))
	buf.Write([]byte{0x00, 0xFF, 0x2F, 0x00})

	file, err := midi.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("error decoding file: %v", err)
	}
	if len(file.Tracks) != 1 {
		t.Fatalf("track count mismatch; expected 1, got %d", len(file.Tracks))
	}
}

func TestDecodeInvalid(t *testing.T) {
	golden := []struct {
		name string
		data []byte
	}{
		// i=0
		{name: "empty", data: nil},
		// i=1
		{name: "invalid signature", data: append([]byte("RIFF"), make([]byte, 16)...)},
		// i=2
		{name: "short header chunk", data: buildSMF(0, 480)[:10]},
		// i=3
		{name: "missing track chunk", data: func() []byte {
			data := buildSMF(0, 480)
			// Promise one track without providing it.
			binary.BigEndian.PutUint16(data[10:], 1)
			return data
		}()},
		// i=4
		{name: "data byte with no running status", data: buildSMF(0, 480, []byte{
			0x00, 0x3C, 0x64,
		})},
		// i=5
		{name: "oversized delta time", data: buildSMF(0, 480, []byte{
			0xFF, 0xFF, 0xFF, 0xFF, 0x7F, 0xFF, 0x2F, 0x00,
		})},
		// i=6
		{name: "truncated tempo event", data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1,
		})},
		// i=7
		{name: "invalid tempo event length", data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x51, 0x02, 0x07, 0xA1,
			0x00, 0xFF, 0x2F, 0x00,
		})},
		// i=8
		{name: "invalid key signature event length", data: buildSMF(0, 480, []byte{
			0x00, 0xFF, 0x59, 0x01, 0x03,
			0x00, 0xFF, 0x2F, 0x00,
		})},
		// i=9
		{name: "invalid status byte", data: buildSMF(0, 480, []byte{
			0x00, 0xF1, 0x00,
			0x00, 0xFF, 0x2F, 0x00,
		})},
	}
	for i, g := range golden {
		if _, err := midi.Decode(g.data); err == nil {
			t.Errorf("i=%d (%s): expected error when decoding invalid file, got nil", i, g.name)
			continue
		}
	}
}

func TestEvents(t *testing.T) {
	// Simultaneous events keep track order; later ticks sort after earlier
	// ones regardless of track.
	data := buildSMF(1, 480,
		[]byte{
			0x00, 0xFF, 0x51, 0x03, 0x0F, 0x42, 0x40,
			0x83, 0x60, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
			0x00, 0xFF, 0x2F, 0x00,
		},
		[]byte{
			0x00, 0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08,
			0x00, 0xFF, 0x2F, 0x00,
		},
	)
	file, err := midi.Decode(data)
	if err != nil {
		t.Fatalf("error decoding file: %v", err)
	}
	want := []midi.Event{
		{Tick: 0, Msg: midi.Tempo{MicrosPerQuarter: 1000000}},
		{Tick: 0, Msg: midi.TimeSignature{Numerator: 4, DenominatorExp: 2}},
		{Tick: 480, Msg: midi.Tempo{MicrosPerQuarter: 500000}},
	}
	got := file.Events()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("event sequence mismatch; expected %#v, got %#v", want, got)
	}
}
