// Package metrics exposes the Prometheus collectors for imports and the
// analysis cache.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ImportRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fra_atlas",
		Name:      "import_rows_total",
		Help:      "Spreadsheet rows processed by import, by outcome.",
	}, []string{"outcome"})

	ImportBatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fra_atlas",
		Name:      "import_batches_total",
		Help:      "Import batches, by result.",
	}, []string{"result"})

	AnalysisCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fra_atlas",
		Name:      "analysis_cache_total",
		Help:      "Synthetic analysis cache lookups, by result.",
	}, []string{"result"})

	once sync.Once
)

// Register adds the collectors to reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		reg.MustRegister(ImportRows, ImportBatches, AnalysisCache)
	})
}
