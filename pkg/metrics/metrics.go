package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RelayReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_received_total",
			Help: "Total number of producer payloads handled, by outcome (count)",
		},
		[]string{"outcome", "reason"},
	)

	RelayPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_polls_total",
			Help: "Total number of consumer polls, by outcome (count)",
		},
		[]string{"outcome"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of rate limiter decisions (count)",
		},
		[]string{"limiter", "status"},
	)

	StoreEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_store_entries",
			Help: "Number of correlation entries currently held (count)",
		},
	)

	StoreEvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_store_evictions_total",
			Help: "Total number of entries removed from the store, by cause (count)",
		},
		[]string{"cause"},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_sweep_duration_ms",
			Help:    "Duration of a store and limiter sweep in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	EntryAgeAtPoll = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_entry_age_at_poll_seconds",
			Help:    "Age of an entry when a consumer retrieved it in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 300, 900, 1800},
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// RegisterRelayMetrics registers every relay collector with the default registry.
// Safe to call more than once.
func RegisterRelayMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RelayReceivedTotal)
		prometheus.MustRegister(RelayPollsTotal)
		prometheus.MustRegister(RateLimitRequestsTotal)
		prometheus.MustRegister(StoreEntries)
		prometheus.MustRegister(StoreEvictionsTotal)
		prometheus.MustRegister(SweepDuration)
		prometheus.MustRegister(EntryAgeAtPoll)
		prometheus.MustRegister(HTTPRequestDuration)
	})
}

func IncReceived(outcome, reason string) {
	RelayReceivedTotal.WithLabelValues(outcome, reason).Inc()
}

func IncPoll(outcome string) {
	RelayPollsTotal.WithLabelValues(outcome).Inc()
}

func IncRateLimit(limiter string, allowed bool) {
	status := "allowed"
	if !allowed {
		status = "limited"
	}
	RateLimitRequestsTotal.WithLabelValues(limiter, status).Inc()
}

func SetStoreEntries(n int) {
	StoreEntries.Set(float64(n))
}

func AddEvictions(cause string, n int) {
	if n <= 0 {
		return
	}
	StoreEvictionsTotal.WithLabelValues(cause).Add(float64(n))
}

func ObserveSweepDuration(duration time.Duration) {
	SweepDuration.Observe(float64(duration.Microseconds()) / 1000)
}

func ObserveEntryAge(age time.Duration) {
	EntryAgeAtPoll.Observe(age.Seconds())
}

func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(float64(duration.Milliseconds()))
}
