package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route, method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "childcare_tasks_http_requests_total",
		Help: "The total number of handled HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "childcare_tasks_http_request_duration_seconds",
		Help:    "Duration of HTTP request handling",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// TaskMutations counts task mutations by operation and outcome kind.
	TaskMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "childcare_tasks_mutations_total",
		Help: "The total number of task mutations",
	}, []string{"operation", "result"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "childcare_tasks_notifications_total",
		Help: "Push notifications by outcome",
	}, []string{"result"})

	StatsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "childcare_tasks_stats_cache_lookups_total",
		Help: "Stats cache lookups by outcome",
	}, []string{"result"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "childcare_tasks_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)
