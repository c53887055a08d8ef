package metrics

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

const namespace = "rectfit"

// Recorder instruments solver passes. A nil *Recorder records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	passes       *prometheus.CounterVec
	improvements *prometheus.CounterVec
	bestScore    *prometheus.GaugeVec
	passDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Greedy placement passes completed.",
		}, []string{"strategy"}),
		improvements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "improvements_total",
			Help:      "Passes that replaced the best packing.",
		}, []string{"strategy"}),
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_score",
			Help:      "Placed area of the best packing found.",
		}, []string{"strategy"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of one placement pass.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(r.passes, r.improvements, r.bestScore, r.passDuration)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObservePass records one completed pass of strategy.
func (r *Recorder) ObservePass(strategy string, d time.Duration, best int64, improved bool) {
	if r == nil {
		return
	}
	r.passes.WithLabelValues(strategy).Inc()
	r.passDuration.WithLabelValues(strategy).Observe(d.Seconds())
	r.bestScore.WithLabelValues(strategy).Set(float64(best))
	if improved {
		r.improvements.WithLabelValues(strategy).Inc()
	}
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing metrics file: %w", err)
		}
	}
	return f.Close()
}

// Push sends all metrics to a Prometheus Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil {
		return nil
	}
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
