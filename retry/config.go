// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xmidt-org/wmsretry/metrics"
)

// Config is the retry policy for one upstream source.  It is copied into
// a Client at construction, so later changes have no effect.
type Config struct {
	// MaxRetries is the number of guarded attempts.  It must be at least 1.
	// One additional unguarded attempt is made when all guarded attempts fail.
	MaxRetries int

	// RetryDelay is the fixed wait between attempts.  It must not be negative.
	RetryDelay time.Duration

	// Source is the name of the upstream source, used in logs and metrics.
	Source string

	// Logger receives one warn record per retried attempt.  If unset,
	// nothing is logged.
	Logger *zerolog.Logger

	// Retries receives one increment per retried attempt.  If unset,
	// nothing is recorded.
	Retries *metrics.Retries

	// Timer is the strategy used to wait between attempts.  If unset,
	// DefaultTimer is used.
	Timer Timer
}

// ConfigError indicates that a Config cannot be used to build a Client.
type ConfigError struct {
	// Field is the name of the offending Config field
	Field string

	// Value is the rejected value
	Value interface{}

	// Reason describes the constraint that was violated
	Reason string
}

// Error fulfills the error interface
func (err *ConfigError) Error() string {
	return fmt.Sprintf("invalid retry config: %s=%v %s", err.Field, err.Value, err.Reason)
}

// validate checks the invariants that a Client relies on
func (cfg Config) validate() error {
	if cfg.MaxRetries < 1 {
		return &ConfigError{
			Field:  "MaxRetries",
			Value:  cfg.MaxRetries,
			Reason: "must be at least 1",
		}
	}

	if cfg.RetryDelay < 0 {
		return &ConfigError{
			Field:  "RetryDelay",
			Value:  cfg.RetryDelay,
			Reason: "must not be negative",
		}
	}

	return nil
}
