// metrics - коллекторы Prometheus babies-service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты операций для метки result.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics объединяет коллекторы сервиса и HTTP-слоя.
type Metrics struct {
	Mutations    *prometheus.CounterVec
	BlobDeletes  *prometheus.CounterVec
	SignCache    *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPPanics   prometheus.Counter
}

// New регистрирует коллекторы в reg (nil -> prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "babies_mutations_total",
			Help: "Mutations of babies and recordings by operation and result.",
		}, []string{"op", "result"}),
		BlobDeletes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "babies_blob_deletes_total",
			Help: "Best-effort object deletions by result.",
		}, []string{"result"}),
		SignCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "babies_sign_cache_total",
			Help: "Signed URL cache lookups (hit/miss).",
		}, []string{"outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "babies_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "babies_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPPanics: f.NewCounter(prometheus.CounterOpts{
			Name: "babies_http_panics_total",
			Help: "Handler panics recovered by the HTTP layer.",
		}),
	}
}

// Mutation учитывает мутацию op; err == nil -> ok.
func (m *Metrics) Mutation(op string, err error) {
	if m == nil {
		return
	}

	m.Mutations.WithLabelValues(op, result(err)).Inc()
}

// BlobDelete учитывает удаление объекта.
func (m *Metrics) BlobDelete(err error) {
	if m == nil {
		return
	}

	m.BlobDeletes.WithLabelValues(result(err)).Inc()
}

// SignCacheLookup учитывает обращение к кэшу подписанных ссылок.
func (m *Metrics) SignCacheLookup(hit bool) {
	if m == nil {
		return
	}

	outcome := "miss"
	if hit {
		outcome = "hit"
	}

	m.SignCache.WithLabelValues(outcome).Inc()
}

// Panic учитывает перехваченную панику хендлера.
func (m *Metrics) Panic() {
	if m == nil {
		return
	}

	m.HTTPPanics.Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}
