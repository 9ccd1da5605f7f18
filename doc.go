// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package wmsretry holds the shared types used to fetch map data from upstream
WMS sources.

The Client interface is the single-shot transport capability that the rest of
this module decorates.  *http.Client implements it, as does ClientFunc.  The
retry subpackage wraps any Client with a fixed retry policy, and the
retrysource subpackage installs that decoration on WMS sources built by a
mapsource.Registry.
*/
package wmsretry
