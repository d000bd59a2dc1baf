//go:build !loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// appendLoadtestLabels is a no-op outside load test builds.
func appendLoadtestLabels(_ context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	return attrs
}
