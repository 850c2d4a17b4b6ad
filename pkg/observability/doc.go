/*
Package observability provides Prometheus metrics for the harbor manager.

Metrics are registered on a caller-supplied prometheus.Registerer so tests and
embedding applications can keep them apart from the global registry.
*/
package observability
