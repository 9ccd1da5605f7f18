// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package metrics records OpenTelemetry instruments for upstream fetch retries.
package metrics

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// MeterName is the instrumentation scope used for all instruments in this package
	MeterName = "github.com/xmidt-org/wmsretry"

	// RetriesName is the name of the counter incremented for each retried attempt
	RetriesName = "wmsretry.retries"

	// ReasonStatus is the reason attribute value for a failing HTTP status
	ReasonStatus = "status"

	// ReasonError is the reason attribute value for a transport error
	ReasonError = "error"
)

// attribute keys
const (
	attrSource = "source"
	attrReason = "reason"
	attrStatus = "http.response.status_code"
)

// Retries counts retried upstream attempts.  A nil *Retries is valid
// and records nothing.
type Retries struct {
	counter metric.Int64Counter
}

// NewRetries creates the retry counter from mp.  If mp is nil, the global
// MeterProvider is used, which is a no-op until the application installs one.
func NewRetries(mp metric.MeterProvider) (*Retries, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	counter, err := mp.Meter(MeterName).Int64Counter(
		RetriesName,
		metric.WithDescription("Number of upstream fetch attempts that were retried"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	return &Retries{counter: counter}, nil
}

// Status records a retry caused by a failing status code.
func (r *Retries) Status(ctx context.Context, source string, code int) {
	if r == nil {
		return
	}

	r.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrReason, ReasonStatus),
		attribute.String(attrStatus, strconv.Itoa(code)),
	))
}

// Error records a retry caused by a transport error.
func (r *Retries) Error(ctx context.Context, source string) {
	if r == nil {
		return
	}

	r.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrReason, ReasonError),
	))
}
