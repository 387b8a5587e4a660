// Package prometheus renders engine metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts an [todobackend.Engine] and exposes an
// [http.Handler] that renders every counter and histogram. Counter names are
// prefixed todobackend_*_total; the single histogram is
// todobackend_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
