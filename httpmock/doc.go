// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package httpmock provides a testify mock of wmsretry.Client together with
helpers for asserting outbound requests and building canned responses.

A typical test scripts a sequence of outcomes:

	c := httpmock.NewClient(t)
	c.OnAny().Return(nil, errors.New("connection refused")).Times(2)
	c.OnAny().Return(httpmock.Response(200, "tile"), nil).Once()

	// exercise the code under test with c as its transport

	c.AssertExpectations()
*/
package httpmock
