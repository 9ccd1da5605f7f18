// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package retry implements a fixed retry policy for the transport of an
upstream map source.

A Client wraps any wmsretry.Client.  Each call to Do runs a loop of
Config.MaxRetries attempts.  A transport error or a response whose status is
outside [200, 300) is logged at warn level, the client sleeps for
Config.RetryDelay, and the loop continues.  The first successful response ends
the loop.  If every loop attempt fails, one final attempt is made and its
result is returned as is, so the transport is invoked at most MaxRetries+1
times.

There is no backoff, no jitter and no sharing of retry budget between
requests:

	c, err := retry.NewClient(retry.Config{
		MaxRetries: 3,
		RetryDelay: time.Second,
		Logger:     &logger,
	}, new(http.Client))

Middleware is available through New:

	ctor, err := retry.New(cfg)
	decorated := client.NewChain(ctor, client.Header(h)).Then(next)
*/
package retry
