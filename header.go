// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wmsretry

import (
	"net/http"
	"sort"
)

// Header is a preprocessed, immutable set of HTTP headers that a source
// stamps onto every upstream request.  Rather than a map, a sorted list of
// canonicalized names is kept, which is cheap to iterate for each request.
type Header struct {
	names  []string
	values [][]string
}

// NewHeader creates an immutable Header from an http.Header.  The values
// are copied, so later changes to v are not observed.
func NewHeader(v http.Header) Header {
	if len(v) == 0 {
		return Header{}
	}

	h := Header{
		names:  make([]string, 0, len(v)),
		values: make([][]string, 0, len(v)),
	}

	canonical := make(http.Header, len(v))
	for name, values := range v {
		key := http.CanonicalHeaderKey(name)
		canonical[key] = append(canonical[key], values...)
	}

	for name := range canonical {
		h.names = append(h.names, name)
	}

	sort.Strings(h.names)
	for _, name := range h.names {
		h.values = append(h.values, append([]string(nil), canonical[name]...))
	}

	return h
}

// NewHeaderFromMap builds a Header from the single-valued map form used
// in source configuration, e.g. http.headers.
func NewHeaderFromMap(v map[string]string) Header {
	if len(v) == 0 {
		return Header{}
	}

	h := make(http.Header, len(v))
	for name, value := range v {
		h.Add(name, value)
	}

	return NewHeader(h)
}

// Len returns the number of distinct header names
func (h Header) Len() int {
	return len(h.names)
}

// SetTo overwrites headers in the destination with the ones defined by
// this Header.
func (h Header) SetTo(dst http.Header) {
	for i, name := range h.names {
		// the names are already canonicalized
		dst[name] = append([]string(nil), h.values[i]...)
	}
}
