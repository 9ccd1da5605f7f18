// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package retrysource provides the wms_retry source type: a WMS source whose
upstream requests are retried on transport errors and non-2xx responses.

A wms_retry block is a wms block plus a retry section:

	retry:
	  max_retries: 3
	  retry_delay: 1
*/
package retrysource
