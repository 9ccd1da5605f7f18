// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/wmsretry"
)

type ChainTestSuite struct {
	suite.Suite

	server *httptest.Server

	// order is used to verify the execution order of decorators
	order []int
}

var _ suite.SetupTestSuite = (*ChainTestSuite)(nil)
var _ suite.SetupAllSuite = (*ChainTestSuite)(nil)
var _ suite.TearDownAllSuite = (*ChainTestSuite)(nil)

func (suite *ChainTestSuite) SetupSuite() {
	suite.server = httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(299)
		}),
	)
}

func (suite *ChainTestSuite) SetupTest() {
	suite.order = nil
}

func (suite *ChainTestSuite) TearDownSuite() {
	suite.server.Close()
	suite.server = nil
}

// assertRequest verifies that the given client is functional
func (suite *ChainTestSuite) assertRequest(expectedOrder []int, c wmsretry.Client) {
	suite.order = nil
	request, err := http.NewRequest(http.MethodGet, suite.server.URL+"/test", nil)
	suite.Require().NoError(err)

	response, err := c.Do(request)
	suite.Require().NoError(err)

	defer response.Body.Close()
	io.Copy(io.Discard, response.Body) //nolint:errcheck
	suite.Equal(expectedOrder, suite.order, "the decorators did not run in the expected order")
	suite.Equal(299, response.StatusCode, "the test server was not invoked")
}

// decorator records its position in suite.order when a request passes through
func (suite *ChainTestSuite) decorator(position int) Constructor {
	return func(next wmsretry.Client) wmsretry.Client {
		return wmsretry.ClientFunc(func(request *http.Request) (*http.Response, error) {
			suite.order = append(suite.order, position)
			return next.Do(request)
		})
	}
}

func (suite *ChainTestSuite) TestEmpty() {
	var chain Chain
	suite.Zero(chain.Len())
	suite.Equal(http.DefaultClient, chain.Then(nil))
	suite.assertRequest(nil, chain.Then(new(http.Client)))
}

func (suite *ChainTestSuite) TestNew() {
	chain := NewChain(suite.decorator(0), nil, suite.decorator(1), suite.decorator(2))
	suite.Equal(3, chain.Len())
	suite.assertRequest([]int{0, 1, 2}, chain.Then(new(http.Client)))
}

func (suite *ChainTestSuite) TestAppend() {
	var (
		first    = NewChain(suite.decorator(0))
		appended = first.Append(suite.decorator(1), nil)
	)

	suite.Equal(1, first.Len(), "Append must not modify the original chain")
	suite.Equal(2, appended.Len())
	suite.assertRequest([]int{0}, first.Then(new(http.Client)))
	suite.assertRequest([]int{0, 1}, appended.Then(nil))
}

func (suite *ChainTestSuite) TestConstructorThen() {
	suite.assertRequest([]int{7}, suite.decorator(7).Then(nil))
	suite.assertRequest([]int{8}, suite.decorator(8).Then(new(http.Client)))
}

func TestChain(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}

func TestConstructorThenDefault(t *testing.T) {
	var next wmsretry.Client
	Constructor(func(c wmsretry.Client) wmsretry.Client {
		next = c
		return c
	}).Then(nil)

	assert.Equal(t, http.DefaultClient, next)
}
