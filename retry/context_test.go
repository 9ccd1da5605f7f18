// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/wmsretry/httpmock"
)

type StateTestSuite struct {
	suite.Suite
}

func (suite *StateTestSuite) TestPrepareNext() {
	s := &State{
		maxRetries: 2,
	}

	suite.Run("Initial", func() {
		suite.Zero(s.Attempt())
		suite.Equal(2, s.MaxRetries())
		suite.False(s.Final())
		actual, actualErr := s.Previous() //nolint:bodyclose
		suite.Nil(actual)
		suite.NoError(actualErr)
	})

	suite.Run("ErrorOnly", func() {
		expectedErr := errors.New("connection refused")
		s.prepareNext(nil, expectedErr)
		suite.Equal(1, s.Attempt())
		suite.False(s.Final())
		actual, actualErr := s.Previous() //nolint:bodyclose
		suite.Nil(actual)
		suite.Equal(expectedErr, actualErr)
	})

	suite.Run("FailedStatus", func() {
		var (
			body     = httpmock.NewTrackedBody("upstream unavailable")
			expected = &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       body,
			}
		)

		s.prepareNext(expected, nil)
		suite.Equal(2, s.Attempt())
		suite.True(s.Final())
		actual, actualErr := s.Previous() //nolint:bodyclose
		suite.Same(expected, actual)
		suite.NoError(actualErr)
		suite.Nil(actual.Body)
		suite.True(body.Closed)
		suite.Zero(body.Len())
	})
}

func (suite *StateTestSuite) TestGetState() {
	suite.Run("Missing", func() {
		suite.Nil(
			GetState(context.Background()),
		)
	})

	suite.Run("Typical", func() {
		expected := new(State)
		ctx := withState(context.Background(), expected)
		suite.Require().NotNil(ctx)
		suite.Same(expected, GetState(ctx))
	})
}

func TestState(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}
