// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Constructor decorates an http.RoundTripper.
type Constructor func(http.RoundTripper) http.RoundTripper

// Chain is an immutable sequence of constructors.
type Chain struct {
	c []Constructor
}

// NewChain creates a chain from a sequence of constructors, which are applied
// in the order presented here.  Nil constructors are skipped.
func NewChain(ctors ...Constructor) Chain {
	return Chain{}.Append(ctors...)
}

// Append returns a new chain with more added to the end.  This chain is not modified.
func (c Chain) Append(more ...Constructor) (nc Chain) {
	nc.c = make([]Constructor, 0, len(c.c)+len(more))
	nc.c = append(nc.c, c.c...)
	for _, ctor := range more {
		if ctor != nil {
			nc.c = append(nc.c, ctor)
		}
	}

	return
}

// Len returns the number of constructors in this chain
func (c Chain) Len() int {
	return len(c.c)
}

// Then decorates next, or http.DefaultTransport if next is nil.  The first
// constructor sees each request first.  CloseIdleConnections of next stays
// reachable through the result.
func (c Chain) Then(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	for i := len(c.c) - 1; i >= 0; i-- {
		next = preserveCloseIdler(next, c.c[i](next))
	}

	return next
}

// Log returns a Constructor that writes one debug record per upstream round trip.
// A nil logger disables the decoration.
func Log(logger *zerolog.Logger) Constructor {
	if logger == nil {
		return nil
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(request *http.Request) (*http.Response, error) {
			start := time.Now()
			response, err := next.RoundTrip(request)

			e := logger.Debug().
				Str("method", request.Method).
				Str("url", request.URL.Redacted()).
				Dur("duration", time.Since(start))

			switch {
			case err != nil:
				e.Err(err).Msg("upstream request failed")

			case response != nil:
				e.Int("status", response.StatusCode).Msg("upstream response")

			default:
				e.Msg("upstream response")
			}

			return response, err
		})
	}
}
