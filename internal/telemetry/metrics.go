// Package telemetry exposes detection runs as Prometheus metrics. The CLI
// writes them to a node_exporter textfile after a run.
package telemetry

import (
	"strconv"

	"github.com/allbin/go-baudscan"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "baudscan"

// Metrics is a baudscan.Observer that records every trial
type Metrics struct {
	registry *prometheus.Registry

	// TrialsTotal counts sampled candidates by rate and verdict
	TrialsTotal *prometheus.CounterVec
	// BytesSampled counts bytes read during sampling by rate
	BytesSampled *prometheus.CounterVec
	// PrintableSampled counts bytes that scored as printable by rate
	PrintableSampled *prometheus.CounterVec
	// OpenErrors counts trials that never got an open port
	OpenErrors prometheus.Counter
	// TrialSeconds observes the time spent per trial
	TrialSeconds prometheus.Histogram
	// DetectedRate holds the last detected rate, 0 when none was found
	DetectedRate prometheus.Gauge
}

var _ baudscan.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TrialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Total number of candidate rates sampled",
			},
			[]string{"rate", "accepted"},
		),
		BytesSampled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_sampled_total",
				Help:      "Total number of bytes read while sampling",
			},
			[]string{"rate"},
		),
		PrintableSampled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "printable_bytes_total",
				Help:      "Total number of sampled bytes counted as printable",
			},
			[]string{"rate"},
		),
		OpenErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "open_errors_total",
				Help:      "Total number of trials where the port could not be opened",
			},
		),
		TrialSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trial_duration_seconds",
				Help:      "Time spent sampling a single candidate",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		DetectedRate: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "detected_rate",
				Help:      "Baud rate found by the last run, 0 if none",
			},
		),
	}

	m.registry.MustRegister(
		m.TrialsTotal,
		m.BytesSampled,
		m.PrintableSampled,
		m.OpenErrors,
		m.TrialSeconds,
		m.DetectedRate,
	)
	return m
}

func (m *Metrics) TrialStarted(baudscan.BaudRate) {}

func (m *Metrics) TrialFinished(outcome baudscan.Outcome) {
	rate := outcome.Rate.String()
	if !outcome.Opened {
		m.OpenErrors.Inc()
		return
	}
	m.TrialsTotal.WithLabelValues(rate, strconv.FormatBool(outcome.Accepted)).Inc()
	m.BytesSampled.WithLabelValues(rate).Add(float64(outcome.BytesRead))
	m.PrintableSampled.WithLabelValues(rate).Add(float64(outcome.Printable))
	m.TrialSeconds.Observe(outcome.Elapsed.Seconds())
}

// SetResult records the outcome of a whole run
func (m *Metrics) SetResult(result baudscan.Result) {
	rate, _ := result.Rate()
	m.DetectedRate.Set(float64(rate))
}

// Gatherer exposes the private registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in text exposition format, atomically
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
