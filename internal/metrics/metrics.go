package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtuber_http_requests_total",
			Help: "Total number of ops HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vtuber_http_request_duration_seconds",
			Help:    "Ops HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CommentsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtuber_comments_ingested_total",
			Help: "Total number of comments added to the comment pool.",
		},
	)

	CommentsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtuber_comments_dropped_total",
			Help: "Total number of comments dropped before being answered.",
		},
		[]string{"reason"}, // malformed, duplicate, rate_limited, overflow
	)

	CommentsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtuber_comments_evicted_total",
			Help: "Total number of stale comments evicted by the sweeper.",
		},
	)

	UtterancesIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtuber_utterances_ingested_total",
			Help: "Total number of utterances added to the utterance pool.",
		},
	)

	UtterancesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtuber_utterances_dropped_total",
			Help: "Total number of utterances dropped because the pool was full.",
		},
	)

	CommentPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vtuber_comment_pool_size",
			Help: "Number of comments awaiting a response.",
		},
	)

	UtterancePoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vtuber_utterance_pool_size",
			Help: "Number of utterances awaiting a response.",
		},
	)

	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtuber_responder_cycles_total",
			Help: "Total number of responder cycles by selected source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vtuber_generation_duration_seconds",
			Help:    "Latency of generation adapter calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	SynthesisFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtuber_synthesis_failures_total",
			Help: "Total number of failed synthesis dispatches.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CommentsIngestedTotal,
		CommentsDroppedTotal,
		CommentsEvictedTotal,
		UtterancesIngestedTotal,
		UtterancesDroppedTotal,
		CommentPoolSize,
		UtterancePoolSize,
		CyclesTotal,
		GenerationDuration,
		SynthesisFailuresTotal,
	)
}
