package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса в собственном registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingSubmissions     *prometheus.CounterVec
	GatewayRequests        *prometheus.CounterVec
	GatewayRequestDuration prometheus.Histogram
	ReservationTransitions *prometheus.CounterVec
	LedgerSnapshotFailures prometheus.Counter
}

// New создает и регистрирует метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	ns := sanitize(serviceName)

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Open connections in the pool.",
		}, []string{"service"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Connections currently in use.",
		}, []string{"service"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Idle connections in the pool.",
		}, []string{"service"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for.",
		}, []string{"service"}),

		BookingSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "booking_submissions_total",
			Help:      "Booking form submissions by outcome.",
		}, []string{"outcome"}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "gateway_requests_total",
			Help:      "Payment preference requests by result.",
		}, []string{"result"}),
		GatewayRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment preference request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		ReservationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reservation_transitions_total",
			Help:      "Slot reservation state transitions.",
		}, []string{"status"}),
		LedgerSnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "ledger_snapshot_failures_total",
			Help:      "Failed best-effort ledger snapshot writes.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingSubmissions,
		m.GatewayRequests,
		m.GatewayRequestDuration,
		m.ReservationTransitions,
		m.LedgerSnapshotFailures,
	)

	return m
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObservePool публикует статистику connection pool
func (m *Metrics) ObservePool(service string, stats sql.DBStats) {
	m.DBOpenConnections.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(service).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(service).Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(service).Set(float64(stats.WaitCount))
}

// IncSubmission фиксирует исход отправки формы бронирования
func (m *Metrics) IncSubmission(outcome string) {
	m.BookingSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveGateway фиксирует вызов платежного шлюза
func (m *Metrics) ObserveGateway(result string, elapsed time.Duration) {
	m.GatewayRequests.WithLabelValues(result).Inc()
	m.GatewayRequestDuration.Observe(elapsed.Seconds())
}

// IncReservation фиксирует переход резервации в новый статус
func (m *Metrics) IncReservation(status string) {
	m.ReservationTransitions.WithLabelValues(status).Inc()
}

// IncSnapshotFailure фиксирует неудачную запись снимка журнала
func (m *Metrics) IncSnapshotFailure() {
	m.LedgerSnapshotFailures.Inc()
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
