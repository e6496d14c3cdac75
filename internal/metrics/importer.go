package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset import Prometheus metrics.
var (
	ImportRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "customerdata",
			Name:      "import_runs_total",
			Help:      "Total number of dataset imports",
		},
		[]string{"status"}, // "ok" / "error"
	)

	ImportRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "customerdata",
			Name:      "import_records_total",
			Help:      "Total records stored by dataset imports",
		},
		[]string{"kind"},
	)

	ImportUnmappedFieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "customerdata",
			Name:      "import_unmapped_fields_total",
			Help:      "Shape fields with no source value during imports",
		},
		[]string{"kind"},
	)

	ImportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "customerdata",
			Name:      "import_duration_seconds",
			Help:      "Dataset import duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)
)

var importMetricsRegistered bool

// RegisterImportMetrics registers Prometheus import metrics. Must be called once from main.
func RegisterImportMetrics() {
	if importMetricsRegistered {
		return
	}
	prometheus.MustRegister(ImportRunsTotal)
	prometheus.MustRegister(ImportRecordsTotal)
	prometheus.MustRegister(ImportUnmappedFieldsTotal)
	prometheus.MustRegister(ImportDuration)
	importMetricsRegistered = true
}
