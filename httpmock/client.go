// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"net/http"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/wmsretry"
)

// DoMethodName is the name of the wmsretry.Client.Do method.
// Used to start fluent expectation chains.
const DoMethodName = "Do"

// DoCall is syntactic sugar around a Do *mock.Call.
// This type provides some higher-level and typesafe expectation
// behavior.
type DoCall struct {
	*mock.Call

	// container is the Client that created this call
	container *Client

	// runFunc is the function that a client explicitly asked to be run
	runFunc func(mock.Arguments)

	asserters []RequestAsserter
}

// newDoCall properly initializes a DoCall expectation.
func newDoCall(container *Client, call *mock.Call) *DoCall {
	dc := &DoCall{
		container: container,
		Call:      call,
	}

	dc.Call.Run(dc.run)
	return dc
}

// run is the mock.Run implementation that executes any request assertions.
func (dc *DoCall) run(args mock.Arguments) {
	request, _ := args.Get(0).(*http.Request)
	dc.container.applyAsserters(request, dc.asserters)

	if dc.runFunc != nil {
		dc.runFunc(args)
	}
}

// Run establishes a run function for this mock.  This does not prevent
// any assertions from running.
func (dc *DoCall) Run(f func(mock.Arguments)) *DoCall {
	dc.runFunc = f
	return dc
}

// Return establishes the return values for this Do invocation.
func (dc *DoCall) Return(r *http.Response, err error) *DoCall {
	dc.Call = dc.Call.Return(r, err)
	return dc
}

// AssertRequest adds request assertions that are specific to this mocked Call.
// Multiple calls to this method are cumulative.
func (dc *DoCall) AssertRequest(a ...RequestAsserter) *DoCall {
	dc.asserters = append(dc.asserters, a...)
	return dc
}

// Client is a mocked wmsretry.Client.  Instances should be created with
// NewClient.  Besides the expectations, each invocation's time is recorded
// so that tests can verify the spacing between attempts.
type Client struct {
	mock.Mock

	t mock.TestingT

	assert    *assert.Assertions
	asserters []RequestAsserter

	lock  sync.Mutex
	times []time.Time
}

var _ wmsretry.Client = (*Client)(nil)

// NewClient returns a mock wmsretry.Client for the given test.
func NewClient(t mock.TestingT) *Client {
	c := new(Client)
	c.Test(t)
	return c
}

// Do implements wmsretry.Client and is driven by the mock's expectations.
func (m *Client) Do(request *http.Request) (*http.Response, error) {
	m.lock.Lock()
	m.times = append(m.times, time.Now())
	m.lock.Unlock()

	arguments := m.Called(request)

	var (
		response, _ = arguments.Get(0).(*http.Response)
		err, _      = arguments.Get(1).(error)
	)

	return response, err
}

// Test changes the test instance on this mock.
func (m *Client) Test(t mock.TestingT) {
	m.Mock.Test(t)
	m.t = t
	m.assert = assert.New(t)
}

// AssertRequest adds request assertions that apply to all mocked calls created
// via this instance.
func (m *Client) AssertRequest(a ...RequestAsserter) *Client {
	m.asserters = append(m.asserters, a...)
	return m
}

// applyAsserters executes this mock's global assertions together with
// a slice of assertions defined on an individual Call expectation.
func (m *Client) applyAsserters(candidate *http.Request, local []RequestAsserter) {
	for _, a := range m.asserters {
		a.Assert(m.assert, candidate)
	}

	for _, a := range local {
		a.Assert(m.assert, candidate)
	}
}

// matchAny is the predicate used to unconditionally match any *http.Request.
func matchAny(*http.Request) bool { return true }

// OnAny is a convenience for starting a *mock.Call expectation which
// matches any HTTP request.
func (m *Client) OnAny() *DoCall {
	return newDoCall(
		m,
		m.On(DoMethodName, mock.MatchedBy(matchAny)),
	)
}

// OnRequest starts a fluent chain that expects a call to Do with
// a request that passes all the given matchers.
func (m *Client) OnRequest(rms ...RequestMatcher) *DoCall {
	return newDoCall(
		m,
		m.On(DoMethodName, mock.MatchedBy(
			func(candidate *http.Request) bool {
				for _, rm := range rms {
					if !rm.Match(candidate) {
						return false
					}
				}

				return true
			},
		)),
	)
}

// Invocations returns the number of times Do was called.
func (m *Client) Invocations() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.times)
}

// Gaps returns the elapsed time between each consecutive pair of Do calls.
func (m *Client) Gaps() []time.Duration {
	m.lock.Lock()
	defer m.lock.Unlock()

	var gaps []time.Duration
	for i := 1; i < len(m.times); i++ {
		gaps = append(gaps, m.times[i].Sub(m.times[i-1]))
	}

	return gaps
}

// AssertExpectations uses the TestingT instance set at construction or with Test
// to assert all the calls have been executed.
func (m *Client) AssertExpectations() {
	m.Mock.AssertExpectations(m.t)
}
