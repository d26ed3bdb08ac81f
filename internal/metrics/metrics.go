package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	recommendationsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_recommendations_served_total",
			Help: "Total recommendation responses, by outcome",
		},
		[]string{"outcome"}, // "ok" | "empty"
	)

	scoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recs_scoring_duration_seconds",
			Help:    "End-to-end recommendation pass duration (fetch + score + rank)",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	trackEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_track_events_total",
			Help: "Total activity events accepted over HTTP",
		},
		[]string{"type"},
	)

	activityConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_activity_consumed_total",
			Help: "Total activity events ingested from RabbitMQ",
		},
		[]string{"result"}, // "ok" | "malformed" | "error"
	)

	featuresExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_image_features_extracted_total",
			Help: "Total image feature extraction attempts",
		},
		[]string{"result"}, // "ok" | "fetch_error" | "decode_error" | "db_error"
	)
)

// RecordRecommendations records one served response and its latency.
func RecordRecommendations(n int, took time.Duration) {
	outcome := "ok"
	if n == 0 {
		outcome = "empty"
	}
	recommendationsServedTotal.WithLabelValues(outcome).Inc()
	scoringDuration.Observe(took.Seconds())
}

// RecordTrackEvent records one accepted track request.
func RecordTrackEvent(activityType string) {
	trackEventsTotal.WithLabelValues(activityType).Inc()
}

// RecordActivityConsumed records one consumed queue message.
func RecordActivityConsumed(result string) {
	activityConsumedTotal.WithLabelValues(result).Inc()
}

// RecordFeatureExtraction records one extraction attempt.
func RecordFeatureExtraction(result string) {
	featuresExtractedTotal.WithLabelValues(result).Inc()
}

// Handler returns the Prometheus metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
