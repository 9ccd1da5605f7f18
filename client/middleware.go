// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"

	"github.com/xmidt-org/wmsretry"
)

// Constructor applies clientside middleware to an HTTP client, as implemented
// by wmsretry.Client.
type Constructor func(wmsretry.Client) wmsretry.Client

// Then applies this constructor to next.  A nil next is replaced with
// http.DefaultClient.
func (c Constructor) Then(next wmsretry.Client) wmsretry.Client {
	if next == nil {
		next = http.DefaultClient
	}

	return c(next)
}

// Chain is an immutable sequence of constructors.  This type is essentially
// a bundle of middleware for the transport of one upstream source.
type Chain struct {
	c []Constructor
}

// NewChain creates a chain from a sequence of constructors.  The constructors
// are always applied in the order presented here.  Nil constructors are skipped.
func NewChain(ctors ...Constructor) Chain {
	return Chain{}.Append(ctors...)
}

// Append adds additional Constructors to this chain, and returns the new chain.
// This chain is not modified.
func (c Chain) Append(more ...Constructor) (nc Chain) {
	nc.c = make([]Constructor, 0, len(c.c)+len(more))
	nc.c = append(nc.c, c.c...)
	for _, ctor := range more {
		if ctor != nil {
			nc.c = append(nc.c, ctor)
		}
	}

	return
}

// Len returns the number of constructors in this chain
func (c Chain) Len() int {
	return len(c.c)
}

// Then applies the given sequence of middleware to the next wmsretry.Client.
// The first constructor in the chain is the outermost decorator, so it
// sees each request first.
func (c Chain) Then(next wmsretry.Client) wmsretry.Client {
	if next == nil {
		next = http.DefaultClient
	}

	// apply in reverse order, so that the order of
	// execution matches the order supplied to this chain
	for i := len(c.c) - 1; i >= 0; i-- {
		next = c.c[i](next)
	}

	return next
}
