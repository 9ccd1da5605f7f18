// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"

	"github.com/xmidt-org/wmsretry"
)

// Header returns a middleware Constructor that stamps h onto each request.
// If h is empty, the returned Constructor does no decoration.
func Header(h wmsretry.Header) Constructor {
	return func(next wmsretry.Client) wmsretry.Client {
		if h.Len() == 0 {
			return next
		}

		return wmsretry.ClientFunc(func(request *http.Request) (*http.Response, error) {
			if request.Header == nil {
				request.Header = make(http.Header)
			}

			h.SetTo(request.Header)
			return next.Do(request)
		})
	}
}
