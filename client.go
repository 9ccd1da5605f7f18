// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wmsretry

import (
	"io"
	"net/http"
)

// Client is the canonical interface implemented by *http.Client.  It is the
// single-shot transport used to talk to an upstream source.
type Client interface {
	Do(*http.Request) (*http.Response, error)
}

var _ Client = (*http.Client)(nil)

// ClientFunc is a function type that implements Client.
type ClientFunc func(*http.Request) (*http.Response, error)

// Do invokes this function.
func (cf ClientFunc) Do(request *http.Request) (*http.Response, error) {
	return cf(request)
}

var _ Client = ClientFunc(nil)

// Cleanup is a utility function for ensuring that a client response's
// Body is drained and closed.  This function does not set the Body to nil.
//
// If either the response or the response.Body field is nil, this function
// does nothing.
func Cleanup(r *http.Response) {
	if r != nil && r.Body != nil {
		io.Copy(io.Discard, r.Body) //nolint:errcheck
		r.Body.Close()
	}
}

// HasStatus reports whether the response carries an HTTP status code.
// A nil response, or one produced by a transport with no notion of status
// (StatusCode == 0), has no status.
func HasStatus(r *http.Response) bool {
	return r != nil && r.StatusCode != 0
}

// IsSuccess reports whether code lies in [200, 300).
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// Failed reports whether a response carries a status code that is
// outside the 2xx range.  Responses without a status are never failures.
func Failed(r *http.Response) bool {
	return HasStatus(r) && !IsSuccess(r.StatusCode)
}
