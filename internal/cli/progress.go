package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mobsr/greenwashing-analyzer/internal/analyze"
)

// terminalProgress renders pass progress as a single rewriting line on
// stderr, or as log lines in verbose mode.
func terminalProgress() analyze.ProgressFunc {
	if verbose {
		return func(fraction float64, message string) {
			log.Debug().Float64("progress", fraction).Msg(message)
		}
	}
	return func(fraction float64, message string) {
		fmt.Fprintf(os.Stderr, "\r[%3.0f%%] %-40s", fraction*100, message)
	}
}

// cmdLogger returns the logger configured by the root command.
func cmdLogger() zerolog.Logger {
	return log.Logger
}
