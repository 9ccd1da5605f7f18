// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xmidt-org/wmsretry"
	"github.com/xmidt-org/wmsretry/client"
	"github.com/xmidt-org/wmsretry/metrics"
)

// NoGetBodyError indicates that an attempt after the first was required
// but the *http.Request had a body and no GetBody field to replay it.
type NoGetBodyError struct {
	// Attempt is the 0-based attempt that could not be made
	Attempt int
}

// Error fulfills the error interface
func (err *NoGetBodyError) Error() string {
	return "http.Request.GetBody must be set in order to retry the transaction"
}

// GetBodyError indicates that http.Request.GetBody returned an error.  Retries
// cannot continue in this case, since the original request body is unavailable.
type GetBodyError struct {
	// Err is the error returned from GetBody
	Err error
}

// Error fulfills the error interface
func (err *GetBodyError) Error() string {
	var o strings.Builder
	o.WriteString("GetBody returned an error: [")
	o.WriteString(err.Err.Error())
	o.WriteRune(']')
	return o.String()
}

// Unwrap produces the GetBody error
func (err *GetBodyError) Unwrap() error {
	return err.Err
}

// New creates a middleware constructor that decorates a transport with the
// given retry policy.  The Config is validated once, here.  A nil next
// passed to the returned constructor is replaced with http.DefaultClient.
func New(cfg Config) (client.Constructor, error) {
	prototype, err := NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}

	return func(next wmsretry.Client) wmsretry.Client {
		// clone the prototype, which has already been validated
		c := new(Client)
		*c = *prototype

		if next != nil {
			c.next = next
		}

		return c
	}, nil
}

// Client is a wmsretry.Client that retries transactions according to
// a fixed policy.  All fields are read-only after construction, so a single
// Client can be shared by any number of goroutines.
type Client struct {
	// next is the decorated client used to execute HTTP transactions
	next wmsretry.Client

	maxRetries int
	retryDelay time.Duration
	source     string

	logger  *zerolog.Logger
	retries *metrics.Retries
	timer   Timer
}

var _ wmsretry.Client = (*Client)(nil)

// NewClient constructs a Client from a configuration.  If next is nil,
// http.DefaultClient is used.
//
// A *ConfigError is returned when MaxRetries is less than 1 or RetryDelay
// is negative.
func NewClient(cfg Config, next wmsretry.Client) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultClient
	}

	c := &Client{
		next:       next,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		source:     cfg.Source,
		logger:     cfg.Logger,
		retries:    cfg.Retries,
		timer:      cfg.Timer,
	}

	if c.logger == nil {
		nop := zerolog.Nop()
		c.logger = &nop
	}

	if c.timer == nil {
		c.timer = DefaultTimer
	}

	return c, nil
}

// MaxRetries returns the number of guarded attempts.  The transport is
// invoked at most MaxRetries()+1 times per Do.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// RetryDelay returns the fixed wait between attempts.
func (c *Client) RetryDelay() time.Duration {
	return c.retryDelay
}

// Next returns the decorated transport.
func (c *Client) Next() wmsretry.Client {
	return c.next
}

// Do issues the original request, retrying on transport errors and failing
// status codes.  The first 2xx response, or response without a status,
// is returned immediately.  When every guarded attempt has failed, one
// more attempt is made and whatever it produces is returned.
//
// Failed responses that are retried have their bodies drained and closed.
// The response returned to the caller is left alone.
//
// The wait between attempts is not interrupted by cancellation of the
// request's context.  A request body is replayed through GetBody before
// each wait, so a body that cannot be replayed is reported without waiting.
func (c *Client) Do(original *http.Request) (*http.Response, error) {
	state := &State{
		maxRetries: c.maxRetries,
	}

	ctx := withState(original.Context(), state)
	for i := 0; i < c.maxRetries; i++ {
		response, err := c.next.Do(original.WithContext(ctx))
		switch {
		case err != nil:
			c.retries.Error(ctx, c.source)
			c.logger.Warn().
				Str("source", c.source).
				Str("url", redact(original)).
				Err(err).
				Int("attempt", i+1).
				Int("maxRetries", c.maxRetries).
				Dur("retryDelay", c.retryDelay).
				Msgf("Request failed with error: %s, retrying in %s (%d/%d)", err, c.retryDelay, i+1, c.maxRetries)

		case wmsretry.Failed(response):
			c.retries.Status(ctx, c.source, response.StatusCode)
			c.logger.Warn().
				Str("source", c.source).
				Str("url", redact(original)).
				Int("status", response.StatusCode).
				Int("attempt", i+1).
				Int("maxRetries", c.maxRetries).
				Dur("retryDelay", c.retryDelay).
				Msgf("HTTP status %d received, retrying in %s (%d/%d)", response.StatusCode, c.retryDelay, i+1, c.maxRetries)

		default:
			// NOTE: leave this response's Body alone, so callers can see it
			return response, nil
		}

		// clean up the failed response while we wait for the next attempt
		state.prepareNext(response, err)

		// a body that cannot be replayed fails now rather than after the wait
		if err := c.rewind(original, state); err != nil {
			return nil, err
		}

		<-c.timer(c.retryDelay)
	}

	// the final attempt is returned unconditionally
	return c.next.Do(original.WithContext(ctx))
}

// rewind resets the original request's body for the attempt after a failure.
// this is similar to how an http.Client handles 3XX redirects.
func (c *Client) rewind(original *http.Request, state *State) error {
	if state.Attempt() == 0 || original.Body == nil || original.Body == http.NoBody {
		return nil
	}

	if original.GetBody == nil {
		return &NoGetBodyError{Attempt: state.Attempt()}
	}

	body, err := original.GetBody()
	if err != nil {
		return &GetBodyError{Err: err}
	}

	original.Body = body
	return nil
}

// redact produces the loggable form of a request's URL
func redact(r *http.Request) string {
	if r.URL == nil {
		return ""
	}

	return r.URL.Redacted()
}
