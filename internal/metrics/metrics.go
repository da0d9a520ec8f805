package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobtrack_scrape_run_duration_seconds",
			Help:    "Duration of each scrape workflow run in seconds.",
			Buckets: []float64{10, 30, 60, 180, 300, 600},
		},
	)
	StageDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobtrack_scrape_stage_duration_seconds",
			Help:       "Duration of each stage in the scrape workflow.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage"},
	)
	StoredJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_jobs_stored_total",
			Help: "Total number of new jobs inserted into the database.",
		},
	)
	IgnoredJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_jobs_ignored_total",
			Help: "Total number of jobs marked ignored by the keyword filter.",
		},
	)
	DuplicateListingsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_listings_duplicate_total",
			Help: "Total number of duplicate listings discarded during processing.",
		},
	)
	FailedTasksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_scrape_tasks_failed_total",
			Help: "Total number of scrape tasks that terminally failed.",
		},
	)
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(StoredJobsCounter)
	prometheus.MustRegister(IgnoredJobsCounter)
	prometheus.MustRegister(DuplicateListingsCounter)
	prometheus.MustRegister(FailedTasksCounter)
}
