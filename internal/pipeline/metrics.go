package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/backmassage/quiltpair/internal/reconcile"
)

const metricsNamespace = "quiltpair"

// writeRunMetrics writes the summary as a Prometheus textfile (for the node
// exporter textfile collector). A fresh registry is used per run.
func writeRunMetrics(path string, s *RunSummary) error {
	reg := prometheus.NewRegistry()

	counter := func(name, help string, v int) {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: name, Help: help,
		})
		c.Add(float64(v))
		reg.MustRegister(c)
	}
	counter("pairs_created_total", "Output pairs written.", s.PairsCreated)
	counter("images_processed_total", "Distinct source images with at least one pair.", s.ImagesProcessed)
	counter("images_missing_total", "Index rows whose image was not found.", s.ImagesMissing)
	counter("rows_read_total", "Index rows read.", s.RowsRead)
	counter("errors_total", "Pairs that failed to write.", s.Errors)

	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "rows_skipped_total",
		Help:      "Index rows skipped, by reason.",
	}, []string{"reason"})
	for _, r := range []reconcile.Reason{
		reconcile.ReasonEmptyCaption, reconcile.ReasonExtension, reconcile.ReasonMalformedPath,
	} {
		skipped.WithLabelValues(r.String()).Add(float64(s.SkipReasons[r]))
	}
	reg.MustRegister(skipped)

	bytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Name: "bytes_copied",
		Help: "Bytes written by the last run.",
	})
	bytes.Set(float64(s.BytesCopied))

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Name: "run_duration_seconds",
		Help: "Wall time of the last run.",
	})
	duration.Set(s.Elapsed.Seconds())

	finished := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Name: "last_run_timestamp_seconds",
		Help: "Unix time the last run finished.",
	})
	finished.Set(float64(time.Now().Unix()))

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Name: "run_info",
		Help: "Identifier of the last run.",
	}, []string{"run_id", "dry_run", "interrupted"})
	info.WithLabelValues(s.RunID, boolLabel(s.DryRun), boolLabel(s.Interrupted)).Set(1)

	reg.MustRegister(bytes, duration, finished, info)
	return prometheus.WriteToTextfile(path, reg)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
