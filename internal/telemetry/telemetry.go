// Package telemetry wires optional span tracing for pipeline runs.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"form4scan/internal/config"
)

// Init installs a stdout span exporter when FORM4_TRACE is set. The
// returned shutdown flushes pending spans and must run before exit.
// When tracing is off this is a no-op and the default provider (which
// records nothing) stays in place.
func Init(ctx context.Context) (func(context.Context) error, error) {
	if !config.TraceEnabled {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
