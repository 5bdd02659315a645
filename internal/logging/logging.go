package logging

import (
	"log"
	"os"
)

func init() {
	// CLI output shouldn't be prefixed with a timestamp; our own Logger
	// already prefixes lines with a dotted component name when one is set.
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}
