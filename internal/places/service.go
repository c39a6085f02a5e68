package places

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultCacheTTL = 5 * time.Minute

var _ Service = (*ServiceImpl)(nil)

// Provider runs one place search against whichever upstream is configured.
type Provider interface {
	SearchPlaces(ctx context.Context, query, location string) ([]types.SearchResult, error)
}

// Service is the place-search helper: it fronts the provider with a
// short-lived in-memory cache so repeat queries inside a session do not
// hit the network again.
type Service interface {
	Search(ctx context.Context, query, location string) ([]types.SearchResult, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
	cache    *cache.Cache
}

// NewServiceImpl builds the helper. ttl <= 0 falls back to the five-minute
// default; expired entries are swept every cleanup cycle rather than
// accumulating for the whole session.
func NewServiceImpl(provider Provider, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
		cache:    cache.New(ttl, ttl),
	}
}

func (s *ServiceImpl) Search(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Search")
	defer span.End()

	cacheKey := searchCacheKey(query, location)
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	if cached, found := s.cache.Get(cacheKey); found {
		if results, ok := cached.([]types.SearchResult); ok {
			s.logger.DebugContext(ctx, "Cache hit for place search", slog.String("cache_key", cacheKey))
			metrics.Get().PlaceCacheHitsTotal.Add(ctx, 1)
			span.SetStatus(codes.Ok, "Served from cache")
			return results, nil
		}
	}
	metrics.Get().PlaceCacheMissesTotal.Add(ctx, 1)

	results, err := s.provider.SearchPlaces(ctx, query, location)
	if err != nil {
		s.logger.ErrorContext(ctx, "Place search failed", slog.Any("error", err), slog.String("query", query))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider search failed")
		return nil, fmt.Errorf("place search failed: %w", err)
	}

	s.cache.Set(cacheKey, results, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("results", len(results)))
	span.SetStatus(codes.Ok, "Results fetched and cached")
	return results, nil
}

func searchCacheKey(query, location string) string {
	return fmt.Sprintf("place_search:%s:%s", query, location)
}
