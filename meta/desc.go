package meta

import (
	"encoding/binary"
	"io"

	"github.com/go-audio/audio"
)

// An AudioDescription chunk describes the encoding of the audio data chunk.
// It is always the first chunk of a CAF file. Its fields are consumed by the
// audio codec; the metadata parsers carry them through untouched.
//
// Audio description chunk format (pseudo code):
//
//	type AUDIO_DESCRIPTION_CHUNK struct {
//	   sample_rate        float64
//	   format_id          [4]byte
//	   format_flags       uint32
//	   bytes_per_packet   uint32
//	   frames_per_packet  uint32
//	   channels_per_frame uint32
//	   bits_per_channel   uint32
//	}
//
// ref: https://developer.apple.com/library/archive/documentation/MusicAudio/Reference/CAFSpec/CAF_spec/CAF_spec.html
type AudioDescription struct {
	// Sample rate in Hz.
	SampleRate float64
	// Four character code identifying the format of the audio data.
	FormatID Type
	// Format specific flags.
	FormatFlags uint32
	// Number of bytes in a packet of audio data.
	BytesPerPacket uint32
	// Number of sample frames in a packet of audio data.
	FramesPerPacket uint32
	// Number of channels in each frame of audio data.
	ChannelsPerFrame uint32
	// Number of valid bits per channel.
	BitsPerChannel uint32
}

// ParseAudioDescription parses and returns a new AudioDescription chunk body,
// which is 32 bytes long.
func ParseAudioDescription(r io.Reader) (desc *AudioDescription, err error) {
	desc = new(AudioDescription)
	if err := binary.Read(r, binary.BigEndian, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// Format returns the audio description as an audio.Format.
func (desc *AudioDescription) Format() *audio.Format {
	return &audio.Format{
		NumChannels: int(desc.ChannelsPerFrame),
		SampleRate:  int(desc.SampleRate),
	}
}
