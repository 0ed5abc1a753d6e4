// caf2mid is a tool which extracts the embedded MIDI stream of CAF files to
// Standard MIDI Files.
package main

import (
	"encoding/base64"
	"flag"
	"log"
	"os"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	"github.com/vochlea/caf"
	"github.com/vochlea/caf/meta"
)

// flagForce specifies if file overwriting should be forced, when a MID file
// of the same name already exists.
var flagForce bool

func init() {
	flag.BoolVar(&flagForce, "f", false, "Force overwrite.")
}

func main() {
	flag.Parse()
	for _, path := range flag.Args() {
		if err := caf2mid(path); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// caf2mid extracts the embedded MIDI stream of the provided CAF file to a MID
// file.
func caf2mid(path string) error {
	// Parse CAF metadata.
	stream, err := caf.ParseFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	midi64 := stream.Tags.Get(meta.KeyMIDIData)
	if len(midi64) == 0 {
		return errors.Errorf("no MIDI stream present in %q", path)
	}
	data, err := base64.StdEncoding.DecodeString(midi64)
	if err != nil {
		return errors.WithStack(err)
	}

	// Create MID file.
	midPath := pathutil.TrimExt(path) + ".mid"
	if !flagForce && osutil.Exists(midPath) {
		return errors.Errorf("MID file %q already present; use -f flag to force overwrite", midPath)
	}
	if err := os.WriteFile(midPath, data, 0644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
