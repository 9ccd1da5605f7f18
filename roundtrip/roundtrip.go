// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"crypto/tls"
	"net/http"
)

// Func is a function that implements http.RoundTripper.
type Func func(*http.Request) (*http.Response, error)

// RoundTrip invokes this function and returns the results
func (f Func) RoundTrip(request *http.Request) (*http.Response, error) {
	return f(request)
}

var _ http.RoundTripper = Func(nil)

// CloseIdler is implemented by round trippers that hold idle connections.
type CloseIdler interface {
	CloseIdleConnections()
}

// CloseIdleConnections invokes rt's CloseIdleConnections, if it has one.
func CloseIdleConnections(rt http.RoundTripper) {
	if ci, ok := rt.(CloseIdler); ok {
		ci.CloseIdleConnections()
	}
}

// decorator pairs a decorating RoundTrip with the CloseIdleConnections of
// the round tripper it decorates
type decorator struct {
	http.RoundTripper
	CloseIdler
}

// preserveCloseIdler makes sure that decorated exposes next's
// CloseIdleConnections when it does not have its own.
func preserveCloseIdler(next, decorated http.RoundTripper) http.RoundTripper {
	if _, ok := decorated.(CloseIdler); ok {
		return decorated
	} else if d, ok := next.(decorator); ok {
		// carry over the closeIdler and drop a level of decoration
		return decorator{
			RoundTripper: decorated,
			CloseIdler:   d.CloseIdler,
		}
	} else if ci, ok := next.(CloseIdler); ok {
		return decorator{
			RoundTripper: decorated,
			CloseIdler:   ci,
		}
	}

	return decorated
}

// NewTransport clones http.DefaultTransport.  When insecure is set, upstream
// certificates are not verified, which is what http.ssl_no_cert_checks asks for.
func NewTransport(insecure bool) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return t
}
