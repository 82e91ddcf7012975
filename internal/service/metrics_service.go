package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling pipeline. All observe methods are nil-safe so callers can wire a
// nil service in tests.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	slotsGenerated     prometheus.Counter
	interviewsCreated  prometheus.Counter
	assignmentsSkipped prometheus.Counter
	remindersSent      prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	slotsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidate_slots_generated_total",
		Help: "Total candidate slots produced by the availability expander",
	})

	interviewsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interviews_created_total",
		Help: "Total interviews persisted by the slot allocator",
	})

	assignmentsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slot_assignments_skipped_total",
		Help: "Total applicant pairings skipped during slot assignment",
	})

	remindersSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interview_reminders_sent_total",
		Help: "Total interview reminder digests delivered",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, slotsGenerated, interviewsCreated, assignmentsSkipped, remindersSent, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		slotsGenerated:     slotsGenerated,
		interviewsCreated:  interviewsCreated,
		assignmentsSkipped: assignmentsSkipped,
		remindersSent:      remindersSent,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSlotsGenerated counts expander output.
func (m *MetricsService) ObserveSlotsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsGenerated.Add(float64(n))
}

// ObserveInterviewsCreated counts allocator writes.
func (m *MetricsService) ObserveInterviewsCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.interviewsCreated.Add(float64(n))
}

// ObserveAssignmentsSkipped counts pairings the allocator dropped.
func (m *MetricsService) ObserveAssignmentsSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.assignmentsSkipped.Add(float64(n))
}

// ObserveRemindersSent counts delivered reminder digests.
func (m *MetricsService) ObserveRemindersSent(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.remindersSent.Add(float64(n))
}
