package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchMetrics records metadata for document-processing runs (sales,
// transfers, warehouse deliveries).
type BatchMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewBatchMetrics registers the batch metrics on the provided registerer.
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	if reg == nil {
		return &BatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_duration_seconds",
		Help:    "Duration of document batch runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"batch"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_documents_processed",
		Help: "Documents successfully applied per batch kind.",
	}, []string{"batch"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_documents_failed",
		Help: "Documents that could not be applied per batch kind.",
	}, []string{"batch"})
	reg.MustRegister(duration, processed, failed)
	return &BatchMetrics{
		duration:  duration,
		processed: processed,
		failed:    failed,
	}
}

// ObserveDuration records the duration of a batch run.
func (b *BatchMetrics) ObserveDuration(batch string, elapsed time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(batch)).Observe(elapsed.Seconds())
}

// AddProcessed adds to the processed counter for the named batch kind.
func (b *BatchMetrics) AddProcessed(batch string, n int) {
	if b == nil || b.processed == nil {
		return
	}
	b.processed.WithLabelValues(normalizeLabel(batch)).Add(float64(n))
}

// AddFailed adds to the failed counter for the named batch kind.
func (b *BatchMetrics) AddFailed(batch string, n int) {
	if b == nil || b.failed == nil {
		return
	}
	b.failed.WithLabelValues(normalizeLabel(batch)).Add(float64(n))
}
