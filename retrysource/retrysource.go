// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retrysource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/xmidt-org/wmsretry/mapsource"
	"github.com/xmidt-org/wmsretry/metrics"
	"github.com/xmidt-org/wmsretry/retry"
)

const (
	// SourceType is the source type handled by this package.
	SourceType = "wms_retry"

	// RetryKey is the configuration block holding the retry policy.
	RetryKey = "retry"

	// DefaultMaxRetries is used when retry.max_retries is absent.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is used, in seconds, when retry.retry_delay is absent.
	DefaultRetryDelay = 1

	// MaxRetryDelay is the largest retry.retry_delay, in seconds, that fits
	// in a time.Duration.  It must agree with RetryConfig's max tag.
	MaxRetryDelay = math.MaxInt64 / int64(time.Second)
)

// RetryConfig is the retry block of a wms_retry source.  Absent keys take
// their defaults when read.
type RetryConfig struct {
	MaxRetries *int `koanf:"max_retries" validate:"omitnil,min=1"`

	// RetryDelay is in whole seconds, at most MaxRetryDelay
	RetryDelay *int `koanf:"retry_delay" validate:"omitnil,min=0,max=9223372036"`
}

// Retries returns max_retries, or DefaultMaxRetries.
func (rc RetryConfig) Retries() int {
	if rc.MaxRetries == nil {
		return DefaultMaxRetries
	}

	return *rc.MaxRetries
}

// Delay returns retry_delay as a duration, or DefaultRetryDelay seconds.
func (rc RetryConfig) Delay() time.Duration {
	if rc.RetryDelay == nil {
		return DefaultRetryDelay * time.Second
	}

	return time.Duration(*rc.RetryDelay) * time.Second
}

// DecodeRetryConfig decodes and validates a retry block.  A nil block
// yields the defaults.
func DecodeRetryConfig(block interface{}) (rc RetryConfig, err error) {
	if block == nil {
		return
	}

	if err = mapsource.Decode(block, &rc); err == nil {
		err = mapsource.Validate(rc)
	}

	if err != nil {
		err = fmt.Errorf("%s: %w", RetryKey, err)
	}

	return
}

// Schema returns base extended with the retry block.  base is not modified.
func Schema(base mapsource.Schema) mapsource.Schema {
	return base.With(RetryKey, mapsource.Object(true, "retry policy", map[string]mapsource.Field{
		"max_retries": {Kind: mapsource.KindInt, Required: true, Doc: fmt.Sprintf("default %d", DefaultMaxRetries)},
		"retry_delay": {Kind: mapsource.KindInt, Required: true, Doc: fmt.Sprintf("seconds, default %d", DefaultRetryDelay)},
	}))
}

// Configuration loads wms_retry sources.  A source is first loaded exactly as
// a plain WMS source would be, then its HTTPClient is decorated with a
// retry.Client.  Nothing else about the source changes.
type Configuration struct {
	// Base loads the underlying WMS source
	Base mapsource.WMSConfiguration

	// Logger is the parent of each source's retry logger
	Logger *zerolog.Logger

	// Retries counts retried attempts across every source
	Retries *metrics.Retries

	// Timer overrides the wait between attempts, mainly for tests
	Timer retry.Timer

	hasBase bool
}

var _ mapsource.Loader = Configuration{}

// Load implements mapsource.Loader.
func (c Configuration) Load(ctx context.Context, name, sourceType string, conf map[string]interface{}) (mapsource.Source, error) {
	rc, err := DecodeRetryConfig(conf[RetryKey])
	if err != nil {
		return nil, err
	}

	base := c.Base
	if base.Logger == nil {
		base.Logger = c.Logger
	}

	ws, err := base.LoadWMS(ctx, name, sourceType, conf)
	if err != nil {
		return nil, err
	}

	var logger *zerolog.Logger
	if c.Logger != nil {
		// retry records carry the source name themselves
		l := c.Logger.With().Str("sourceType", sourceType).Logger()
		logger = &l
	}

	rcl, err := retry.NewClient(
		retry.Config{
			MaxRetries: rc.Retries(),
			RetryDelay: rc.Delay(),
			Source:     name,
			Logger:     logger,
			Retries:    c.Retries,
			Timer:      c.Timer,
		},
		ws.HTTPClient,
	)

	if err != nil {
		return nil, err
	}

	ws.HTTPClient = rcl
	return ws, nil
}

// Option tailors the Configuration installed by Register.
type Option func(*Configuration)

// WithLogger sets the parent logger of loaded sources.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Configuration) {
		c.Logger = l
	}
}

// WithRetries sets the retry counter shared by loaded sources.
func WithRetries(r *metrics.Retries) Option {
	return func(c *Configuration) {
		c.Retries = r
	}
}

// WithTimer sets the wait strategy of loaded sources.
func WithTimer(t retry.Timer) Option {
	return func(c *Configuration) {
		c.Timer = t
	}
}

// WithBase sets the loader used for the underlying WMS source.  Without
// it, Register uses the WMSConfiguration registered for the wms type.
func WithBase(base mapsource.WMSConfiguration) Option {
	return func(c *Configuration) {
		c.Base = base
		c.hasBase = true
	}
}

// Register adds the wms_retry type to r.  The schema extends whatever is
// registered for the wms type, or mapsource.WMSSchema when r has none.
//
// Unless WithBase is given, sources are loaded through the wms type's
// mapsource.WMSConfiguration, so they keep its transport, middleware and
// logger.  When the wms type is absent or registered with some other
// Loader, a zero WMSConfiguration is used.
func Register(r *mapsource.Registry, opts ...Option) error {
	var c Configuration
	for _, o := range opts {
		o(&c)
	}

	if !c.hasBase {
		if l, ok := r.Loader(mapsource.WMSType); ok {
			switch wc := l.(type) {
			case mapsource.WMSConfiguration:
				c.Base = wc
			case *mapsource.WMSConfiguration:
				if wc != nil {
					c.Base = *wc
				}
			}
		}
	}

	base, ok := r.Schema(mapsource.WMSType)
	if !ok {
		base = mapsource.WMSSchema()
	}

	return r.Register(SourceType, c, Schema(base))
}
