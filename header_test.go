// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wmsretry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type HeaderTestSuite struct {
	suite.Suite
}

func (suite *HeaderTestSuite) assertHeader(expected http.Header, actual Header) bool {
	actualHeader := make(http.Header)
	actual.SetTo(actualHeader)

	if len(expected) == 0 {
		return suite.Empty(actualHeader)
	}

	return suite.Equal(expected, actualHeader)
}

func (suite *HeaderTestSuite) TestEmpty() {
	suite.Zero(Header{}.Len())
	suite.Zero(NewHeader(nil).Len())
	suite.Zero(NewHeaderFromMap(nil).Len())
	suite.assertHeader(nil, NewHeader(http.Header{}))
}

func (suite *HeaderTestSuite) TestNewHeader() {
	source := http.Header{
		"user-agent": {"wmsretry"},
		"X-Multi":    {"a", "b"},
	}

	h := NewHeader(source)
	suite.Equal(2, h.Len())
	suite.assertHeader(
		http.Header{
			"User-Agent": {"wmsretry"},
			"X-Multi":    {"a", "b"},
		},
		h,
	)

	// immutability
	source["X-Multi"][0] = "changed"
	suite.assertHeader(
		http.Header{
			"User-Agent": {"wmsretry"},
			"X-Multi":    {"a", "b"},
		},
		h,
	)
}

func (suite *HeaderTestSuite) TestNewHeaderFromMap() {
	h := NewHeaderFromMap(map[string]string{
		"referer":    "https://tiles.example.org",
		"User-Agent": "wmsretry",
	})

	suite.Equal(2, h.Len())
	suite.assertHeader(
		http.Header{
			"Referer":    {"https://tiles.example.org"},
			"User-Agent": {"wmsretry"},
		},
		h,
	)
}

func (suite *HeaderTestSuite) TestSetToOverwrites() {
	dst := http.Header{
		"User-Agent": {"Go-http-client/1.1"},
		"Accept":     {"image/png"},
	}

	NewHeaderFromMap(map[string]string{"User-Agent": "wmsretry"}).SetTo(dst)
	suite.Equal(
		http.Header{
			"User-Agent": {"wmsretry"},
			"Accept":     {"image/png"},
		},
		dst,
	)
}

func TestHeader(t *testing.T) {
	suite.Run(t, new(HeaderTestSuite))
}
