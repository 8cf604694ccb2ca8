// Package metrics collects prometheus counters and histograms for entity
// store activity: operation outcomes, compare-and-swap conflicts, and backing
// sheet request latency.
//
// Collectors are created against an injected prometheus.Registerer so the
// composing application owns exposition; this repository never starts an HTTP
// listener. A nil *Metrics records nothing, letting callers wire metrics in
// or out without conditionals at every call site.
package metrics
