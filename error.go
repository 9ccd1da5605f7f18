// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wmsretry

import (
	"fmt"
	"net/http"
)

// StatusError describes an upstream response whose status code indicated
// failure.  Sources return this when the final response of a fetch was not
// a 2xx.
type StatusError struct {
	// URL is the upstream URL that was requested
	URL string

	// Code is the status code of the upstream response
	Code int

	// Header is the set of headers from the upstream response
	Header http.Header

	// Body is the (possibly truncated) upstream response body
	Body []byte
}

// Error fulfills the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// StatusCode returns the upstream status code
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Headers returns the upstream response headers
func (e *StatusError) Headers() http.Header {
	return e.Header
}
