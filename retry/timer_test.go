// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		start = time.Now()
		tc    = DefaultTimer(10 * time.Millisecond)
	)

	require.NotNil(tc)
	select {
	case <-tc:
		assert.GreaterOrEqual(time.Since(start), 10*time.Millisecond)

	case <-time.After(5 * time.Second):
		assert.Fail("The default timer did not fire")
	}
}

func TestDefaultTimerZero(t *testing.T) {
	select {
	case <-DefaultTimer(0):
		// passing
	case <-time.After(5 * time.Second):
		assert.Fail(t, "A zero delay should fire immediately")
	}
}
