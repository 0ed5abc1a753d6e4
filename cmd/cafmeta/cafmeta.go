// cafmeta is a tool which lists the chunks and metadata tags of CAF files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vochlea/caf"
	"github.com/vochlea/caf/meta"
)

var (
	// flagChunks specifies if the chunk inventory of each file is listed.
	flagChunks bool
	// flagTags specifies if the metadata tags of each file are listed.
	flagTags bool
	// flagVerbose enables debug logging of the chunk scan.
	flagVerbose bool
)

func init() {
	flag.BoolVar(&flagChunks, "chunks", false, "List the chunk inventory.")
	flag.BoolVar(&flagTags, "tags", false, "List the metadata tags.")
	flag.BoolVar(&flagVerbose, "v", false, "Enable verbose logging.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cafmeta [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if !flagChunks && !flagTags {
		// List everything unless told otherwise.
		flagChunks, flagTags = true, true
	}
	for _, path := range flag.Args() {
		if err := cafmeta(path); err != nil {
			if errors.Cause(err) == caf.ErrFormat {
				logrus.WithField("path", path).Warn("not a CAF file")
				continue
			}
			logrus.Fatalf("%+v", err)
		}
	}
}

func cafmeta(path string) error {
	stream, err := caf.ParseFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	for chunkNum, hdr := range stream.Chunks {
		logrus.WithFields(logrus.Fields{
			"chunk": chunkNum,
			"type":  hdr.Type,
			"size":  hdr.Size,
		}).Debug("chunk scanned")
	}
	if flagChunks {
		for chunkNum, hdr := range stream.Chunks {
			listHeader(hdr, chunkNum)
			if hdr.Type == meta.TypeAudioDescription && stream.Desc != nil {
				listDesc(stream.Desc)
			}
		}
	}
	if flagTags {
		listTags(stream.Tags)
	}
	return nil
}

// typeName maps from chunk type to a descriptive name.
var typeName = map[meta.Type]string{
	meta.TypeAudioDescription: "AUDIO DESCRIPTION",
	meta.TypeAudioData:        "AUDIO DATA",
	meta.TypeInformation:      "INFORMATION",
	meta.TypeMIDI:             "MIDI",
	meta.TypeUserDefined:      "USER DEFINED",
	meta.TypeFree:             "FREE",
}

// Example:
//
//	CHUNK #0
//	  type: "desc" (AUDIO DESCRIPTION)
//	  size: 32
func listHeader(hdr meta.Header, chunkNum int) {
	name, ok := typeName[hdr.Type]
	if !ok {
		name = "UNKNOWN"
	}
	fmt.Printf("CHUNK #%d\n", chunkNum)
	fmt.Printf("  type: %q (%s)\n", hdr.Type, name)
	fmt.Printf("  size: %d\n", hdr.Size)
}

// Example:
//
//	  format: "lpcm"
//	  sample rate: 44100 Hz
//	  channels: 2
//	  bits per channel: 16
func listDesc(desc *meta.AudioDescription) {
	format := desc.Format()
	fmt.Printf("  format: %q\n", desc.FormatID)
	fmt.Printf("  sample rate: %d Hz\n", format.SampleRate)
	fmt.Printf("  channels: %d\n", format.NumChannels)
	fmt.Printf("  bits per channel: %d\n", desc.BitsPerChannel)
}

// Example:
//
//	tags: 2
//	  tag[0]: tempo=120
//	  tag[1]: time signature=4/4
func listTags(tags *meta.Tags) {
	fmt.Printf("tags: %d\n", len(tags.Pairs))
	for tagNum, pair := range tags.Pairs {
		fmt.Printf("  tag[%d]: %s=%s\n", tagNum, pair[0], pair[1])
	}
}
