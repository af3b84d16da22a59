package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcomeOf(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors are created eagerly so recording works before Init, which only
// registers them and starts serving.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	stakingOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staking_operations_total",
			Help: "Staking engine operations by outcome; rejected operations are labelled with the error name",
		},
		[]string{"operation", "outcome"},
	)

	rewardsDistributedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_distributed_base_units_total",
			Help: "Rewards paid out by claims since process start, in base units",
		},
	)

	monthlyDistributedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "monthly_distributed_base_units",
			Help: "Rewards distributed in the current 30 day epoch, in base units",
		},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_staked_base_units",
			Help: "Principal currently locked in unclaimed stakes, in base units",
		},
	)

	clockOffsetGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clock_offset_seconds",
			Help: "Last measured offset between the local clock and the NTP server",
		},
	)

	claimableStakesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "claimable_stakes_count",
			Help: "Number of stakes found unlocked by the last unlock check",
		},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		queueSendErrorCounter,
		pollerDurationHistogram,
		dbLatency,
		httpRequestDurationHistogram,
		stakingOperationsCounter,
		rewardsDistributedCounter,
		monthlyDistributedGauge,
		totalStakedGauge,
		clockOffsetGauge,
		claimableStakesGauge,
	)
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcomeOf(failure).String()).Observe(d.Seconds())
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

// RecordStakingOperation counts one engine call. outcome is "success" or
// the name of the rejection.
func RecordStakingOperation(operation, outcome string) {
	stakingOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

func RecordRewardsDistributed(amount uint64) {
	rewardsDistributedCounter.Add(float64(amount))
}

func RecordMonthlyDistributed(amount uint64) {
	monthlyDistributedGauge.Set(float64(amount))
}

func RecordTotalStaked(amount uint64) {
	totalStakedGauge.Set(float64(amount))
}

func RecordClockOffset(offset time.Duration) {
	clockOffsetGauge.Set(offset.Seconds())
}

func RecordClaimableStakesCount(count int) {
	claimableStakesGauge.Set(float64(count))
}

// StartHTTPRequestDurationTimer starts a timer for an incoming request; the
// returned func records it once the matched route and status are known.
func StartHTTPRequestDurationTimer(method string) func(route string, statusCode int) {
	startTime := time.Now()
	return func(route string, statusCode int) {
		httpRequestDurationHistogram.WithLabelValues(
			method,
			route,
			fmt.Sprintf("%d", statusCode),
		).Observe(time.Since(startTime).Seconds())
	}
}
