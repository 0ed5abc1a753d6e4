package midi

import "sort"

// An Event pairs the absolute tick at which a track event occurs with its
// decoded message. Ticks are accumulated from the delta times of the track
// the event belongs to.
type Event struct {
	// Absolute position of the event in ticks.
	Tick uint64
	// Decoded message of the event.
	Msg Message
}

// A Message is the decoded message of a track event.
//
// Message is one of the following concrete types:
//
//	Tempo
//	TimeSignature
//	KeySignature
//	Other
type Message interface {
	// isMessage ensures that only message types can be assigned to Message.
	isMessage()
}

// A Tempo message sets the tempo in microseconds per quarter note. It is
// stored as the meta event with type 0x51.
type Tempo struct {
	// Tempo in microseconds per quarter note.
	MicrosPerQuarter uint32
}

// SecondsPerQuarter returns the tempo in seconds per quarter note.
func (tempo Tempo) SecondsPerQuarter() float64 {
	return float64(tempo.MicrosPerQuarter) / 1e6
}

// A TimeSignature message sets the time signature. It is stored as the meta
// event with type 0x58.
type TimeSignature struct {
	// Numerator of the time signature.
	Numerator uint8
	// Denominator of the time signature, stored as a power of two exponent.
	DenominatorExp uint8
}

// Denominator returns the resolved denominator of the time signature.
func (sig TimeSignature) Denominator() int {
	return 1 << sig.DenominatorExp
}

// A KeySignature message sets the key signature. It is stored as the meta
// event with type 0x59.
type KeySignature struct {
	// Number of sharps (positive) or flats (negative) of the key, in the
	// range [-7, 7].
	SharpsFlats int8
	// Minor mode flag; the key is major when false.
	Minor bool
}

// An Other message is any track event not interpreted by this package, such
// as channel voice messages, system exclusive events and the remaining meta
// events. Only the status byte of the event is retained.
type Other struct {
	// Status byte of the event; 0xFF for meta events.
	Status byte
}

func (Tempo) isMessage()         {}
func (TimeSignature) isMessage() {}
func (KeySignature) isMessage()  {}
func (Other) isMessage()         {}

// Events returns the events of all tracks merged into a single sequence
// ordered by absolute tick. Simultaneous events keep the track order of the
// file.
func (file *File) Events() []Event {
	var events []Event
	for _, track := range file.Tracks {
		events = append(events, track...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
	return events
}
