package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process-wide structured logger. Writes to stdout unless a
// writer is supplied (tests pass a buffer).
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
