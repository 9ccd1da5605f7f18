// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	return provider, reader
}

// collectRetries returns the data points of the retries counter, keyed by reason
func collectRetries(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.DataPoint[int64] {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	points := make(map[string]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != MeterName {
			continue
		}

		for _, m := range sm.Metrics {
			if m.Name != RetriesName {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected sum data")
			for _, dp := range sum.DataPoints {
				reason, _ := dp.Attributes.Value(attribute.Key(attrReason))
				points[reason.AsString()] = dp
			}
		}
	}

	return points
}

func TestRetries(t *testing.T) {
	var (
		assert           = assert.New(t)
		require          = require.New(t)
		provider, reader = setupTestMeterProvider(t)
	)

	r, err := NewRetries(provider)
	require.NoError(err)
	require.NotNil(r)

	r.Status(context.Background(), "osm", 503)
	r.Status(context.Background(), "osm", 503)
	r.Error(context.Background(), "osm")

	points := collectRetries(t, reader)
	require.Len(points, 2)

	status := points[ReasonStatus]
	assert.Equal(int64(2), status.Value)
	code, ok := status.Attributes.Value(attribute.Key(attrStatus))
	assert.True(ok)
	assert.Equal("503", code.AsString())
	source, ok := status.Attributes.Value(attribute.Key(attrSource))
	assert.True(ok)
	assert.Equal("osm", source.AsString())

	assert.Equal(int64(1), points[ReasonError].Value)
}

func TestRetriesNil(t *testing.T) {
	var r *Retries
	assert.NotPanics(t, func() {
		r.Status(context.Background(), "osm", 500)
		r.Error(context.Background(), "osm")
	})
}

func TestNewRetriesGlobal(t *testing.T) {
	r, err := NewRetries(nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.NotPanics(t, func() {
		r.Error(context.Background(), "osm")
	})
}
