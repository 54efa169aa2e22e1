package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "surface_parse_seconds",
		Help:    "Time spent parsing a source unit.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	UnitsParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surface_units_parsed_total",
		Help: "Total number of source units parsed successfully.",
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surface_parse_failures_total",
		Help: "Total number of source units that failed to parse.",
	})

	CorpusUnits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "surface_corpus_units_total",
		Help: "Current number of units in the corpus graph.",
	})

	CorpusTypes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "surface_corpus_types_total",
		Help: "Current number of type declarations in the corpus graph.",
	})

	DependencyEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "surface_dependency_edges_total",
		Help: "Current number of resolved cross-unit dependency edges.",
	})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "surface_resolve_seconds",
		Help:    "Time spent resolving dependency edges over the full corpus.",
		Buckets: prometheus.DefBuckets,
	})

	ReportWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "surface_report_write_seconds",
		Help:    "Time spent rendering and writing interface map reports.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surface_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
