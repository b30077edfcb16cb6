package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans emitted by this module.
const tracerName = "github.com/rampart-ai/rampart"

// Tracer returns the module's tracer from the globally registered provider.
// With no provider registered this yields a no-op tracer, so call sites can
// record spans unconditionally.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
