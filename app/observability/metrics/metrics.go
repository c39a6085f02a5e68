package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	BackendRequestsTotal          metric.Int64Counter
	BackendRequestDurationSeconds metric.Float64Histogram
	TokenRefreshesTotal           metric.Int64Counter
	PlaceCacheHitsTotal           metric.Int64Counter
	PlaceCacheMissesTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it must
// run after the meter provider is set; before that it binds to the no-op
// provider, which is what tests rely on.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripPlannerEngine")
		var err error
		m := &AppMetrics{}

		m.BackendRequestsTotal, err = meter.Int64Counter(
			"backend_requests_total",
			metric.WithDescription("Total number of requests issued to the trip backend"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create backend_requests_total: %v", err)
		}

		m.BackendRequestDurationSeconds, err = meter.Float64Histogram(
			"backend_request_duration_seconds",
			metric.WithDescription("Duration of trip backend requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create backend_request_duration_seconds: %v", err)
		}

		m.TokenRefreshesTotal, err = meter.Int64Counter(
			"token_refreshes_total",
			metric.WithDescription("Total number of single-flight token refreshes performed"),
			metric.WithUnit("{refresh}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create token_refreshes_total: %v", err)
		}

		m.PlaceCacheHitsTotal, err = meter.Int64Counter(
			"place_cache_hits_total",
			metric.WithDescription("Place-search cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_cache_hits_total: %v", err)
		}

		m.PlaceCacheMissesTotal, err = meter.Int64Counter(
			"place_cache_misses_total",
			metric.WithDescription("Place-search cache misses"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_cache_misses_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing
// against the current meter provider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
