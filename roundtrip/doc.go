// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package roundtrip builds and decorates the http.RoundTripper beneath an
upstream source's http.Client.

Decoration must not hide CloseIdleConnections, or the enclosing http.Client
can no longer release idle upstream connections.  Chain preserves that
method even when its constructors do not.
*/
package roundtrip
