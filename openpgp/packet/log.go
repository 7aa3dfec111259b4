package packet

import (
	"io"

	"github.com/rs/zerolog"
)

// logger is silent by default; PacketList.Read's tolerant-mode skips are
// the only thing this package logs (spec.md §4.8 step 5), and most
// callers never install a sink.
var logger = zerolog.Nop()

// SetLogger installs the zerolog.Logger this package writes tolerant-mode
// diagnostics to. Passing the zero value disables logging again.
func SetLogger(l zerolog.Logger) { logger = l }

// SetLogOutput is a convenience wrapper around SetLogger for callers that
// just want a destination writer at the default level.
func SetLogOutput(w io.Writer) { logger = zerolog.New(w).With().Timestamp().Logger() }
