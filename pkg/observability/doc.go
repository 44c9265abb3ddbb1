/*
Package observability exposes engine activity as Prometheus metrics.

Metrics are fed by lifecycle hooks, so any host embedding the engine can opt in:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := tabula.New(tabula.WithLifecycleHooks(m.Hooks()))
*/
package observability
