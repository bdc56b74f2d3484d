// Package telemetry wires tracing, metrics and instrumented storage access
// for the shop binaries.
package telemetry

import (
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Service identifies the emitting binary on every span and metric.
type Service struct {
	Name    string
	Version string
}

func (s Service) resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.Name),
		semconv.ServiceVersion(s.Version),
	)
}
