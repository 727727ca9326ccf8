// Package metrics exposes prometheus instrumentation for the batch scheduler
// and the quote engine.
package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ErrorTypeDeadlineExceeded = "deadline_exceeded"
	ErrorTypeDB               = "db"
	ErrorTypeBusinessRule     = "business_rule"
	ErrorTypeUnknown          = "unknown"
)

// SchedulerMetrics captures movement batch health signals.
type SchedulerMetrics struct {
	jobRuns           *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	jobTimeouts       *prometheus.CounterVec
	jobErrors         *prometheus.CounterVec
	accountsProcessed *prometheus.CounterVec
	runLoopLag        prometheus.Observer
}

var (
	schedulerMetricsOnce sync.Once
	schedulerMetrics     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerMetrics = newSchedulerMetrics(prometheus.DefaultRegisterer)
	})
	return schedulerMetrics
}

// ResetSchedulerMetricsForTest resets the scheduler metrics singleton.
func ResetSchedulerMetricsForTest() {
	schedulerMetricsOnce = sync.Once{}
	schedulerMetrics = nil
}

func newSchedulerMetrics(registerer prometheus.Registerer) *SchedulerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_scheduler_job_runs_total",
		Help: "Scheduler job runs by name.",
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revenue_scheduler_job_duration_seconds",
		Help:    "Scheduler job latency to protect snapshot batch freshness.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_scheduler_job_timeouts_total",
		Help: "Scheduler job timeouts that threaten snapshot freshness.",
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_scheduler_job_errors_total",
		Help: "Scheduler job errors by type.",
	}, []string{"job", "error_type"})
	accountsProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_scheduler_accounts_processed_total",
		Help: "Accounts snapshotted per job to gauge batch throughput.",
	}, []string{"job"})
	runLoopLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "revenue_scheduler_runloop_lag_seconds",
		Help:    "Scheduler run loop lag beyond the configured interval.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	for _, collector := range []prometheus.Collector{
		jobRuns, jobDuration, jobTimeouts, jobErrors, accountsProcessed, runLoopLag,
	} {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	}

	return &SchedulerMetrics{
		jobRuns:           jobRuns,
		jobDuration:       jobDuration,
		jobTimeouts:       jobTimeouts,
		jobErrors:         jobErrors,
		accountsProcessed: accountsProcessed,
		runLoopLag:        runLoopLag,
	}
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *SchedulerMetrics) IncJobTimeout(job string) {
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string, err error) {
	m.jobErrors.WithLabelValues(job, classifyError(err)).Inc()
}

func (m *SchedulerMetrics) AddAccountsProcessed(job string, n int) {
	if n <= 0 {
		return
	}
	m.accountsProcessed.WithLabelValues(job).Add(float64(n))
}

func (m *SchedulerMetrics) ObserveRunLoopLag(lag time.Duration) {
	if lag <= 0 {
		return
	}
	m.runLoopLag.Observe(lag.Seconds())
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return ErrorTypeUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrorTypeDeadlineExceeded
	default:
		return ErrorTypeUnknown
	}
}
