// Package metrics provides the Prometheus registry reference and Pushgateway
// support for pagefetch. Collectors are defined in their respective packages
// (client, pagination) and registered via promauto.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the default Prometheus registry used by pagefetch.
var Registry = prometheus.DefaultRegisterer

// Gatherer exposes everything registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name for CLI runs.
const DefaultJob = "pagefetch"

// Push sends all metrics from gatherer to the Pushgateway at url, replacing
// earlier pushes for the same job. A CLI run is too short-lived to be scraped.
func Push(ctx context.Context, url, job string, gatherer prometheus.Gatherer) error {
	if url == "" {
		return fmt.Errorf("pushgateway url is required")
	}
	if err := push.New(url, job).Gatherer(gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pagefetch_requests_total{status} (Counter): page requests by HTTP status or "network_error"
//   - pagefetch_request_duration_seconds (Histogram): request duration including decode
//   - pagefetch_errors_total{class} (Counter): errors by class (transport, client, server, decode, inconsistent)
//
// Run Metrics (pkg/pagination):
//   - pagefetch_pages_fetched_total{result} (Counter): page fetches by result (success, error)
//   - pagefetch_pages_in_flight (Gauge): page fetches currently in flight (never above the concurrency limit)
//   - pagefetch_page_fetch_duration_seconds (Histogram): single page fetch duration
//   - pagefetch_items_fetched_total (Counter): items collected
//   - pagefetch_runs_total{status} (Counter): runs by terminal state (done, failed)
//   - pagefetch_run_duration_seconds (Histogram): full run duration
//
// Example Prometheus Queries:
//
//   # Page error rate
//   rate(pagefetch_pages_fetched_total{result="error"}[5m])
//
//   # P95 page latency
//   histogram_quantile(0.95, rate(pagefetch_page_fetch_duration_seconds_bucket[5m]))
