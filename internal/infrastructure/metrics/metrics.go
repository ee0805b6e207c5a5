// Package metrics expone métricas Prometheus de la importación y del API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
)

// Resultados por fila de una importación.
const (
	rowResultInserted = "inserted"
	rowResultUpdated  = "updated"
	rowResultError    = "error"
)

// ImportMetrics implementa ports.ImportMetrics.
type ImportMetrics struct {
	rows     *prometheus.CounterVec
	imports  *prometheus.CounterVec
	duration prometheus.Histogram
}

var _ ports.ImportMetrics = (*ImportMetrics)(nil)

// NewImportMetrics registra las métricas de importación en reg. Con reg nil no registra nada.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_import_rows_total",
		Help: "Filas procesadas por la importación de inventario, por resultado.",
	}, []string{"result"})
	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_imports_total",
		Help: "Importaciones de inventario por estado (ok, rejected, failed).",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_import_duration_seconds",
		Help:    "Duración de la importación de inventario en segundos.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(rows, imports, duration)
	return &ImportMetrics{rows: rows, imports: imports, duration: duration}
}

// ObserveImport registra el resultado de una importación.
func (m *ImportMetrics) ObserveImport(status string, inserted, updated, failed int, elapsedSeconds float64) {
	if m == nil || m.imports == nil {
		return
	}
	m.imports.WithLabelValues(normalizeLabel(status)).Inc()
	m.rows.WithLabelValues(rowResultInserted).Add(float64(inserted))
	m.rows.WithLabelValues(rowResultUpdated).Add(float64(updated))
	m.rows.WithLabelValues(rowResultError).Add(float64(failed))
	m.duration.Observe(elapsedSeconds)
}

// HTTPMetrics cuenta peticiones y latencia por ruta.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMetrics registra las métricas HTTP en reg. Con reg nil no registra nada.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Peticiones HTTP atendidas.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP en segundos.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, latency)
	return &HTTPMetrics{requests: requests, latency: latency}
}

// ObserveRequest registra una petición. route es el patrón (/api/stock/:id), no la URL.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
