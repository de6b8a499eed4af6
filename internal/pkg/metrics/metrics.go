package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marchon_locator"

// Metrics - все метрики сервиса в собственном реестре.
// Методы безопасны для nil-получателя: в тестах и CLI метрики не нужны.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	snapshotSize   *prometheus.GaugeVec
	snapshotAge    *prometheus.GaugeVec
	refreshes      *prometheus.CounterVec
	lookups        *prometheus.CounterVec
	geocodes       *prometheus.CounterVec
	syncRuns       *prometheus.CounterVec
	syncDuration   *prometheus.HistogramVec
	streamMessages *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		snapshotSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_features",
			Help:      "Features in the current snapshot",
		}, []string{"dataset"}),
		snapshotAge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_loaded_timestamp_seconds",
			Help:      "Unix time the current snapshot was loaded",
		}, []string{"dataset"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Snapshot refresh attempts by origin and result",
		}, []string{"dataset", "origin", "result"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearest_lookups_total",
			Help:      "Nearest-feature lookups by result",
		}, []string{"result"}),
		geocodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Forward geocoding requests by result",
		}, []string{"result"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Upstream sync runs by result",
		}, []string{"dataset", "result"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Upstream sync run duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"dataset"}),
		streamMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_messages_total",
			Help:      "Redis stream messages handled by workers",
		}, []string{"stream", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.snapshotSize,
		m.snapshotAge,
		m.refreshes,
		m.lookups,
		m.geocodes,
		m.syncRuns,
		m.syncDuration,
		m.streamMessages,
	)
	return m
}

// Handler - обработчик /metrics для этого реестра
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) SetSnapshot(dataset string, size int, loadedAt time.Time) {
	if m == nil {
		return
	}
	m.snapshotSize.WithLabelValues(dataset).Set(float64(size))
	m.snapshotAge.WithLabelValues(dataset).Set(float64(loadedAt.Unix()))
}

func (m *Metrics) Refresh(dataset, origin string, err error) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(dataset, origin, result(err)).Inc()
}

func (m *Metrics) Lookup(found bool) {
	if m == nil {
		return
	}
	if found {
		m.lookups.WithLabelValues("found").Inc()
		return
	}
	m.lookups.WithLabelValues("not_found").Inc()
}

func (m *Metrics) Geocode(outcome string) {
	if m == nil {
		return
	}
	m.geocodes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SyncRun(dataset string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(dataset, result(err)).Inc()
	m.syncDuration.WithLabelValues(dataset).Observe(d.Seconds())
}

func (m *Metrics) StreamMessage(stream string, err error) {
	if m == nil {
		return
	}
	m.streamMessages.WithLabelValues(stream, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
