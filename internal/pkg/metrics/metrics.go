package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// All recording methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	attendanceActions *prometheus.CounterVec
	attendanceErrors  *prometheus.CounterVec
	payrollGenerated  prometheus.Counter
	qrRotations       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		attendanceActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_actions_total",
				Help: "Successful check-ins and check-outs",
			},
			[]string{"action", "source"},
		),
		attendanceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_rejections_total",
				Help: "Attendance attempts rejected by the reconciler",
			},
			[]string{"reason"},
		),
		payrollGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_generated_total",
			Help: "Payroll records generated or regenerated",
		}),
		qrRotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qr_rotations_total",
			Help: "QR tokens rotated",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.attendanceActions,
		m.attendanceErrors,
		m.payrollGenerated,
		m.qrRotations,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by route pattern rather than raw path so ids
// don't explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) AttendanceRecorded(action, source string) {
	if m == nil {
		return
	}
	m.attendanceActions.WithLabelValues(action, source).Inc()
}

func (m *Metrics) AttendanceRejected(reason string) {
	if m == nil {
		return
	}
	m.attendanceErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) PayrollGenerated() {
	if m == nil {
		return
	}
	m.payrollGenerated.Inc()
}

func (m *Metrics) QRRotated(n int) {
	if m == nil {
		return
	}
	m.qrRotations.Add(float64(n))
}
