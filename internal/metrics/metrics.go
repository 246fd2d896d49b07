// Package metrics records per-run sweeper counters in a private Prometheus
// registry and optionally pushes them to a Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job label.
const JobName = "prsweep"

// Recorder collects the counters of one sweeper run.
type Recorder struct {
	registry *prometheus.Registry

	reposScanned   prometheus.Counter
	repoErrors     prometheus.Counter
	pullsScanned   prometheus.Counter
	pullsStale     prometheus.Counter
	pullsClosed    prometheus.Counter
	notifyFailures *prometheus.CounterVec
	lastRun        prometheus.Gauge
	runDuration    prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reposScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prsweep_repositories_scanned_total",
			Help: "Repositories whose open pull requests were listed.",
		}),
		repoErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prsweep_repository_errors_total",
			Help: "Repositories whose processing was aborted by an error.",
		}),
		pullsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prsweep_pull_requests_scanned_total",
			Help: "Open pull requests inspected.",
		}),
		pullsStale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prsweep_pull_requests_stale_total",
			Help: "Pull requests at or past the staleness threshold.",
		}),
		pullsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prsweep_pull_requests_closed_total",
			Help: "Pull requests closed past the closure threshold.",
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prsweep_notification_failures_total",
			Help: "Webhook deliveries that failed, by card kind.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prsweep_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prsweep_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
	}

	r.registry.MustRegister(
		r.reposScanned,
		r.repoErrors,
		r.pullsScanned,
		r.pullsStale,
		r.pullsClosed,
		r.notifyFailures,
		r.lastRun,
		r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RepoScanned counts a repository, failed or not.
func (r *Recorder) RepoScanned(failed bool) {
	r.reposScanned.Inc()
	if failed {
		r.repoErrors.Inc()
	}
}

// PullScanned counts an inspected pull request.
func (r *Recorder) PullScanned() {
	r.pullsScanned.Inc()
}

// PullStale counts a reported pull request.
func (r *Recorder) PullStale() {
	r.pullsStale.Inc()
}

// PullClosed counts a closed pull request.
func (r *Recorder) PullClosed() {
	r.pullsClosed.Inc()
}

// NotifyFailed counts a failed webhook delivery of the given kind.
func (r *Recorder) NotifyFailed(kind string) {
	r.notifyFailures.WithLabelValues(kind).Inc()
}

// RunFinished records when the run ended and how long it took.
func (r *Recorder) RunFinished(end time.Time, took time.Duration) {
	r.lastRun.Set(float64(end.Unix()))
	r.runDuration.Set(took.Seconds())
}

// Push sends every collected metric to the Pushgateway at url, grouped by
// organization. It replaces the previous push for the same group.
func (r *Recorder) Push(ctx context.Context, url, org string, client *http.Client) error {
	p := push.New(url, JobName).
		Gatherer(r.registry).
		Grouping("org", org)
	if client != nil {
		p = p.Client(client)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
