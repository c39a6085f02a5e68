package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// countingProvider records every upstream call so the tests can tell a
// cache hit from a miss.
type countingProvider struct {
	calls   atomic.Int32
	results []types.SearchResult
	err     error
}

func (p *countingProvider) SearchPlaces(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

func setupPlacesServiceTest(provider Provider, ttl time.Duration) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(provider, ttl, logger)
}

func TestSearch_CachesByQueryAndLocation(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{results: []types.SearchResult{{PlaceID: "p1", Name: "Alfama"}}}
	service := setupPlacesServiceTest(provider, 5*time.Minute)

	first, err := service.Search(ctx, "lisbon", "38.72,-9.14")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, int32(1), provider.calls.Load())

	// Same query and location within the TTL stays off the network.
	second, err := service.Search(ctx, "lisbon", "38.72,-9.14")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), provider.calls.Load())

	// A different location is a different cache entry.
	_, err = service.Search(ctx, "lisbon", "41.15,-8.61")
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())

	// So is a different query.
	_, err = service.Search(ctx, "porto", "38.72,-9.14")
	require.NoError(t, err)
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestSearch_ExpiredEntryRefetches(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{results: []types.SearchResult{{PlaceID: "p1"}}}
	service := setupPlacesServiceTest(provider, 20*time.Millisecond)

	_, err := service.Search(ctx, "lisbon", "")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, err = service.Search(ctx, "lisbon", "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestSearch_ProviderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{err: errors.New("upstream down")}
	service := setupPlacesServiceTest(provider, 5*time.Minute)

	_, err := service.Search(ctx, "lisbon", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")

	// Failures are not cached; the next call tries the provider again.
	provider.err = nil
	provider.results = []types.SearchResult{{PlaceID: "p1"}}
	results, err := service.Search(ctx, "lisbon", "")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestSearchCacheKey(t *testing.T) {
	assert.Equal(t, "place_search:lisbon:38.72,-9.14", searchCacheKey("lisbon", "38.72,-9.14"))
	assert.NotEqual(t, searchCacheKey("lisbon", "a"), searchCacheKey("lisbon", "b"))
}
