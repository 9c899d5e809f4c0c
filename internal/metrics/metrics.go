package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendsbot_extractions_total",
			Help: "Total number of rendered-page extraction attempts",
		},
		[]string{"host", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trendsbot_extraction_duration_seconds",
			Help:    "Duration of rendered-page extractions in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20},
		},
		[]string{"host"},
	)

	SourceAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendsbot_source_attempts_total",
			Help: "Trend source attempts by tier and outcome",
		},
		[]string{"source", "outcome"},
	)

	ImageLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendsbot_image_lookups_total",
			Help: "Image search lookups by outcome (hit or placeholder)",
		},
		[]string{"outcome"},
	)
)

// RecordExtraction updates the extraction metrics for one browser session.
func RecordExtraction(host string, duration time.Duration, ok bool) {
	outcome := "error"
	if ok {
		outcome = "success"
	}
	ExtractionsTotal.WithLabelValues(host, outcome).Inc()
	ExtractionDuration.WithLabelValues(host).Observe(duration.Seconds())
}

// RecordSourceAttempt counts one tier attempt in the fallback chain.
func RecordSourceAttempt(source string, ok bool) {
	outcome := "error"
	if ok {
		outcome = "success"
	}
	SourceAttemptsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordImageLookup counts one image search, noting whether a real result or
// the placeholder was returned.
func RecordImageLookup(hit bool) {
	outcome := "placeholder"
	if hit {
		outcome = "hit"
	}
	ImageLookupsTotal.WithLabelValues(outcome).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
