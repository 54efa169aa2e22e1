package observability

import "go.opentelemetry.io/otel"

// Tracer is the package-wide tracer for scan/resolve spans. Without a
// registered provider this is a no-op, so instrumented code paths carry no
// overhead in plain CLI runs.
var Tracer = otel.Tracer("surface")
