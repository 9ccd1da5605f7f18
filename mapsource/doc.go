// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package mapsource holds the upstream map sources and the Registry that builds
them from configuration.

Each source type is registered with a Loader and the Schema its
configuration block must fit.  The plain WMS type is provided by
WMSConfiguration and WMSSchema.  Other types extend these explicitly:

	r := mapsource.NewRegistry()
	r.Register(mapsource.WMSType, mapsource.WMSConfiguration{}, mapsource.WMSSchema())
*/
package mapsource
