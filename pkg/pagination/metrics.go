package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagefetch_pages_fetched_total",
		Help: "Total page fetches by result",
	}, []string{"result"}) // "success", "error"

	pagesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pagefetch_pages_in_flight",
		Help: "Number of page fetches currently in flight",
	})

	pageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagefetch_page_fetch_duration_seconds",
		Help:    "Duration of a single page fetch in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
	})

	itemsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagefetch_items_fetched_total",
		Help: "Total items collected across all runs",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagefetch_runs_total",
		Help: "Total fetch runs by terminal state",
	}, []string{"status"}) // "done", "failed"

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagefetch_run_duration_seconds",
		Help:    "Duration of a full fetch run in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)
