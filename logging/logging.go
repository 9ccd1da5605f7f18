// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the zerolog.Logger shared by upstream sources.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config is the log section of the configuration document.
type Config struct {
	// Level is a zerolog level name.  Unparseable or empty values mean info.
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	// Pretty selects human-readable console output instead of JSON.
	Pretty bool `koanf:"pretty"`
}

// New creates a logger that writes to w, or os.Stderr when w is nil.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || len(cfg.Level) == 0 {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ForSource returns a child logger tagged with the name and type of an upstream source.
func ForSource(l zerolog.Logger, name, sourceType string) zerolog.Logger {
	return l.With().
		Str("source", name).
		Str("sourceType", sourceType).
		Logger()
}
