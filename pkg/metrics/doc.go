// Package metrics records Prometheus metrics for the bridge.
//
// Metrics satisfies the observer interfaces of pkg/graph, pkg/calcom and
// pkg/webhook, so those packages never import Prometheus directly. Pass a
// dedicated registry in tests; New(nil) registers on the default registerer.
package metrics
