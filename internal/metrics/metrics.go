package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the bot.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	ChartsTotal     *prometheus.CounterVec // labels: status
	RenderDuration  prometheus.Histogram
	BatchJobsTotal  *prometheus.CounterVec // labels: mode
	BatchJobsActive prometheus.Gauge
	BatchItemsTotal *prometheus.CounterVec // labels: status
	TelegramCalls   *prometheus.CounterVec // labels: method, status
	UpdatesTotal    *prometheus.CounterVec // labels: kind
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ChartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartsentinel_charts_total",
			Help: "Chart renders by outcome",
		}, []string{"status"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartsentinel_render_duration_seconds",
			Help:    "Time to fetch, compute and render one chart",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		BatchJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartsentinel_batch_jobs_total",
			Help: "Batch jobs submitted by delivery mode",
		}, []string{"mode"}),
		BatchJobsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartsentinel_batch_jobs_active",
			Help: "Batch jobs currently running",
		}),
		BatchItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartsentinel_batch_items_total",
			Help: "Batch entries by outcome",
		}, []string{"status"}),
		TelegramCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartsentinel_telegram_calls_total",
			Help: "Telegram Bot API calls by method and outcome",
		}, []string{"method", "status"}),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartsentinel_updates_total",
			Help: "Inbound updates by kind",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(
		m.ChartsTotal, m.RenderDuration,
		m.BatchJobsTotal, m.BatchJobsActive, m.BatchItemsTotal,
		m.TelegramCalls, m.UpdatesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// ObserveRender records one chart render.
func (m *Metrics) ObserveRender(elapsed time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.ChartsTotal.WithLabelValues(status(ok)).Inc()
	m.RenderDuration.Observe(elapsed.Seconds())
}

// BatchStarted records a submitted batch job.
func (m *Metrics) BatchStarted(mode string) {
	if m == nil {
		return
	}
	m.BatchJobsTotal.WithLabelValues(mode).Inc()
	m.BatchJobsActive.Inc()
}

// BatchFinished records the outcome of a batch job.
func (m *Metrics) BatchFinished(ok, total int) {
	if m == nil {
		return
	}
	m.BatchJobsActive.Dec()
	m.BatchItemsTotal.WithLabelValues("ok").Add(float64(ok))
	m.BatchItemsTotal.WithLabelValues("error").Add(float64(total - ok))
}

// ObserveTelegramCall records one Bot API call.
func (m *Metrics) ObserveTelegramCall(method string, ok bool) {
	if m == nil {
		return
	}
	m.TelegramCalls.WithLabelValues(method, status(ok)).Inc()
}

// ObserveUpdate records one inbound update.
func (m *Metrics) ObserveUpdate(kind string) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(kind).Inc()
}
