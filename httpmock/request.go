// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

// RequestMatcher supplies expectation matching for requests.
type RequestMatcher interface {
	Match(*http.Request) bool
}

// RequestMatcherFunc allows closures to be used directly as RequestMatchers
type RequestMatcherFunc func(*http.Request) bool

// Match satisfies the RequestMatcher interface
func (rmf RequestMatcherFunc) Match(r *http.Request) bool {
	return rmf(r)
}

// RequestAsserter executes assertions against requests.  Implementations are
// used in mock.Run functions to verify that a request is in the correct state.
// This is sometimes preferable to matching, since the failure output is clearer.
type RequestAsserter interface {
	Assert(*assert.Assertions, *http.Request)
}

// RequestAsserterFunc allows closures to be used directly as RequestAsserters
type RequestAsserterFunc func(*assert.Assertions, *http.Request)

// Assert satisfies the RequestAsserter interface
func (raf RequestAsserterFunc) Assert(a *assert.Assertions, r *http.Request) {
	raf(a, r)
}

// Method asserts that a request has exactly the given method.
func Method(expected string) RequestAsserter {
	return RequestAsserterFunc(func(assert *assert.Assertions, candidate *http.Request) {
		assert.Equal(expected, candidate.Method, "The request method did not match")
	})
}

// Path asserts that a request's URL.Path match an expected value.
// The returned assertion will also fail if a request has no URL field set.
func Path(expected string) RequestAsserter {
	return RequestAsserterFunc(func(assert *assert.Assertions, candidate *http.Request) {
		if assert.NotNil(candidate.URL, "No URL set on the request") {
			assert.Equal(expected, candidate.URL.Path, "The request URL.Path did not match")
		}
	})
}

// Query asserts that a request's URL carries the query parameter with
// the expected value.
func Query(name, expected string) RequestAsserter {
	return RequestAsserterFunc(func(assert *assert.Assertions, candidate *http.Request) {
		if assert.NotNil(candidate.URL, "No URL set on the request") {
			assert.Equal(
				expected,
				candidate.URL.Query().Get(name),
				"The request query parameter [%s] did not match",
				name,
			)
		}
	})
}

// Header asserts that a given header has the expected values.  All header
// values must match the expected slice exactly.
func Header(name string, expected ...string) RequestAsserter {
	return RequestAsserterFunc(func(assert *assert.Assertions, candidate *http.Request) {
		assert.ElementsMatchf(
			expected,
			candidate.Header.Values(name),
			"The request header [%s] did not match",
			name,
		)
	})
}
