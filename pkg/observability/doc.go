// Package observability provides the structured logger and Prometheus
// metrics used by the filter engine.
package observability
