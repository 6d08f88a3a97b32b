// Package meshlog provides the structured logger shared by every package
// in this module.
package meshlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level logger. Operators log to it instead of
// returning per-candidate diagnostics; driver entry points report only
// a did-anything-change boolean.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLevel adjusts the global verbosity. Driver entry points flip this
// based on their verbose flag rather than threading a logger through
// every kernel.
func SetLevel(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
