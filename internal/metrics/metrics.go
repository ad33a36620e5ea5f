// Package metrics counts broker activity in process, using the same
// registry-of-named-counters style as go-metrics. Nothing here is
// exposed over HTTP or any other transport (spec §4.8) — callers that
// want the numbers read the registry directly (e.g. from tests).
package metrics

import (
	"fmt"

	gometrics "github.com/rcrowley/go-metrics"
)

// Metrics counts requests, errors, and connection lifecycle events. A
// nil *Metrics is valid: every method is a no-op on a nil receiver so
// callers that don't care about metrics don't need to construct one.
type Metrics struct {
	registry gometrics.Registry
}

// New returns a Metrics backed by a fresh go-metrics registry.
func New() *Metrics {
	return &Metrics{registry: gometrics.NewRegistry()}
}

func (m *Metrics) counter(name string) gometrics.Counter {
	return gometrics.GetOrRegisterCounter(name, m.registry)
}

// IncRequest records one handled request for the given API key.
func (m *Metrics) IncRequest(apiKey int16) {
	if m == nil {
		return
	}
	m.counter(fmt.Sprintf("requests_total{api_key=%d}", apiKey)).Inc(1)
}

// IncError records one error of the given taxonomy kind (spec §7).
func (m *Metrics) IncError(kind string) {
	if m == nil {
		return
	}
	m.counter(fmt.Sprintf("errors_total{kind=%s}", kind)).Inc(1)
}

// ConnOpened records one accepted connection.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.counter("connections_opened_total").Inc(1)
}

// ConnClosed records one closed connection.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.counter("connections_closed_total").Inc(1)
}

// Snapshot returns the current value of every registered counter,
// keyed by name. Intended for tests.
func (m *Metrics) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	if m == nil {
		return out
	}
	m.registry.Each(func(name string, i interface{}) {
		if c, ok := i.(gometrics.Counter); ok {
			out[name] = c.Count()
		}
	})
	return out
}
