// Package metrics exposes binding and live-session activity as Prometheus
// collectors. A *Metrics satisfies vm.Observer, so it can be passed straight
// to vm.Options.
package metrics
