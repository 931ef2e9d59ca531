// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refmatch/pkg/types"
)

// NewLogger creates a zerolog logger on stderr from the logging
// configuration. Logs go to stderr so table and JSON output on stdout stay
// machine-readable. Unknown levels fall back to info.
func NewLogger(cfg types.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stderr)
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return out.Level(level).With().Timestamp().Logger()
}
