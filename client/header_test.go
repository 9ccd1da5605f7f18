// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/wmsretry"
	"github.com/xmidt-org/wmsretry/httpmock"
)

func TestHeaderEmpty(t *testing.T) {
	next := httpmock.NewClient(t)
	assert.Equal(t, next, Header(wmsretry.Header{})(next))
}

func TestHeader(t *testing.T) {
	testCases := []struct {
		name    string
		request *http.Request
	}{
		{
			name:    "NilHeader",
			request: &http.Request{Method: http.MethodGet},
		},
		{
			name: "ExistingHeader",
			request: &http.Request{
				Method: http.MethodGet,
				Header: http.Header{
					"User-Agent": {"original"},
					"Accept":     {"image/png"},
				},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)

				next      = httpmock.NewClient(t)
				expected  = httpmock.Response(http.StatusOK, "")
				decorated = Header(wmsretry.NewHeaderFromMap(map[string]string{
					"user-agent": "wmsretry",
					"X-Api-Key":  "secret",
				}))(next)
			)

			next.OnAny().
				AssertRequest(
					httpmock.Header("User-Agent", "wmsretry"),
					httpmock.Header("X-Api-Key", "secret"),
				).
				Return(expected, nil).
				Once()

			actual, err := decorated.Do(testCase.request) //nolint:bodyclose
			require.NoError(err)
			assert.Equal(expected, actual)
			if accept := testCase.request.Header.Get("Accept"); len(accept) > 0 {
				assert.Equal("image/png", accept)
			}

			next.AssertExpectations()
		})
	}
}
