// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"bytes"
	"io"
	"net/http"
)

// BodyString is syntactic sugar for creating a response body from a string
func BodyString(b string) io.ReadCloser {
	return io.NopCloser(
		bytes.NewBufferString(b),
	)
}

// Response creates a canned response with the given status and body.
func Response(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode:    statusCode,
		Status:        http.StatusText(statusCode),
		Header:        make(http.Header),
		Body:          BodyString(body),
		ContentLength: int64(len(body)),
	}
}

// NoStatus creates a response that carries no status code, as produced by
// transports that have no notion of HTTP status.
func NoStatus(body string) *http.Response {
	return &http.Response{
		Body:          BodyString(body),
		ContentLength: int64(len(body)),
	}
}

// TrackedBody is an io.ReadCloser that records whether it was closed.
type TrackedBody struct {
	*bytes.Reader
	Closed bool
}

// NewTrackedBody creates a TrackedBody over the given content
func NewTrackedBody(content string) *TrackedBody {
	return &TrackedBody{
		Reader: bytes.NewReader([]byte(content)),
	}
}

// Close marks this body as closed
func (tb *TrackedBody) Close() error {
	tb.Closed = true
	return nil
}
