// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package retry

import "time"

// Timer is a strategy for waiting out the delay between attempts.  The
// returned channel must deliver once the duration has elapsed.
type Timer func(time.Duration) <-chan time.Time

// DefaultTimer is the default Timer implementation.  It simply
// delegates to time.After.
func DefaultTimer(d time.Duration) <-chan time.Time {
	return time.After(d)
}
