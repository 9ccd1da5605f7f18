// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wmsretry

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	var (
		assert = assert.New(t)
		err    = &StatusError{
			URL:    "http://wms.example.org/service",
			Code:   http.StatusServiceUnavailable,
			Header: http.Header{"Retry-After": {"5"}},
		}
	)

	assert.Equal(http.StatusServiceUnavailable, err.StatusCode())
	assert.Equal("5", err.Headers().Get("Retry-After"))
	assert.Contains(err.Error(), "http://wms.example.org/service")
	assert.Contains(err.Error(), "503")

	var target *StatusError
	assert.True(errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Same(err, target)
}
