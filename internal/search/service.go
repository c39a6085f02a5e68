package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultPageSize = 20

var _ Service = (*ServiceImpl)(nil)

// Service holds the current query, filters, sort mode and the raw result
// set, and derives filtered/sorted/paginated views without re-querying.
type Service interface {
	SetResults(ctx context.Context, query string, results []types.SearchResult)
	SetFilters(ctx context.Context, req types.UpdateFiltersRequest)
	SetSort(ctx context.Context, mode types.SortMode)
	SetPage(ctx context.Context, page int)
	FilteredResults(ctx context.Context) []types.SearchResult
	PaginatedResults(ctx context.Context) types.PaginatedSearchResponse
	ResetFilters(ctx context.Context)
	ClearSearch(ctx context.Context)
}

type ServiceImpl struct {
	logger   *slog.Logger
	pageSize int

	mu      sync.Mutex
	query   string
	raw     []types.SearchResult
	filters types.SearchFilters
	sortBy  types.SortMode
	page    int
}

func NewServiceImpl(pageSize int, logger *slog.Logger) *ServiceImpl {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ServiceImpl{
		logger:   logger,
		pageSize: pageSize,
		sortBy:   types.SortRelevance,
		page:     1,
	}
}

// SetResults replaces the raw result set. Backend order is kept as the
// "relevance" order. Pagination snaps back to page 1.
func (s *ServiceImpl) SetResults(ctx context.Context, query string, results []types.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.raw = results
	s.page = 1
	s.logger.DebugContext(ctx, "Search results stored",
		slog.String("query", query), slog.Int("count", len(results)))
}

// SetFilters merges a partial filter update into the current filters and
// resets pagination to page 1.
func (s *ServiceImpl) SetFilters(ctx context.Context, req types.UpdateFiltersRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Category != nil {
		s.filters.Category = *req.Category
	}
	if req.MinRating != nil {
		s.filters.MinRating = *req.MinRating
	}
	if req.PriceLevel != nil {
		s.filters.PriceLevel = req.PriceLevel
	}
	if req.OpenNow != nil {
		s.filters.OpenNow = req.OpenNow
	}
	s.page = 1
}

func (s *ServiceImpl) SetSort(ctx context.Context, mode types.SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = mode
	s.page = 1
}

func (s *ServiceImpl) SetPage(ctx context.Context, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
}

// FilteredResults applies, in order: category match (exact tag or
// membership of the types list), minimum rating (unrated counts as 0),
// exact price level, open-now; then sorts by the active mode. Relevance
// keeps the backend order untouched.
func (s *ServiceImpl) FilteredResults(ctx context.Context) []types.SearchResult {
	_, span := otel.Tracer("SearchService").Start(ctx, "FilteredResults")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.filteredLocked()
	span.SetAttributes(
		attribute.Int("raw", len(s.raw)),
		attribute.Int("filtered", len(out)),
		attribute.String("sort_by", string(s.sortBy)),
	)
	span.SetStatus(codes.Ok, "Filtered view computed")
	return out
}

func (s *ServiceImpl) filteredLocked() []types.SearchResult {
	filtered := make([]types.SearchResult, 0, len(s.raw))
	for _, res := range s.raw {
		if !matchesFilters(res, s.filters) {
			continue
		}
		filtered = append(filtered, res)
	}

	switch s.sortBy {
	case types.SortRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return ratingOf(filtered[i]) > ratingOf(filtered[j])
		})
	case types.SortDistance:
		sort.SliceStable(filtered, func(i, j int) bool {
			return distanceOf(filtered[i]) < distanceOf(filtered[j])
		})
	}
	return filtered
}

func matchesFilters(res types.SearchResult, f types.SearchFilters) bool {
	if f.Category != "" && f.Category != "all" {
		if !strings.EqualFold(res.Category, f.Category) && !containsFold(res.Types, f.Category) {
			return false
		}
	}
	if f.MinRating > 0 && ratingOf(res) < f.MinRating {
		return false
	}
	if f.PriceLevel != nil {
		if res.PriceLevel == nil || *res.PriceLevel != *f.PriceLevel {
			return false
		}
	}
	if f.OpenNow != nil && *f.OpenNow {
		if res.OpenNow == nil || !*res.OpenNow {
			return false
		}
	}
	return true
}

// ratingOf treats un-rated entries as rating 0.
func ratingOf(res types.SearchResult) float64 {
	if res.Rating == nil {
		return 0
	}
	return *res.Rating
}

// distanceOf treats a missing distance as infinitely far, so entries
// without one sort last.
func distanceOf(res types.SearchResult) float64 {
	if res.Distance == nil {
		return math.Inf(1)
	}
	return *res.Distance
}

func containsFold(list []string, want string) bool {
	for _, item := range list {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}

// PaginatedResults slices the filtered/sorted view by the current page.
// A page past the end comes back empty rather than clamped.
func (s *ServiceImpl) PaginatedResults(ctx context.Context) types.PaginatedSearchResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filteredLocked()
	totalPages := int(math.Ceil(float64(len(filtered)) / float64(s.pageSize)))

	start := (s.page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return types.PaginatedSearchResponse{
		Query:        s.query,
		Results:      filtered[start:end],
		Page:         s.page,
		PageSize:     s.pageSize,
		TotalPages:   totalPages,
		TotalResults: len(filtered),
		SortBy:       s.sortBy,
		Filters:      s.filters,
	}
}

// ResetFilters drops filter and sort state but keeps the raw results and
// query. ClearSearch drops everything.
func (s *ServiceImpl) ResetFilters(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = types.SearchFilters{}
	s.sortBy = types.SortRelevance
	s.page = 1
}

func (s *ServiceImpl) ClearSearch(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.raw = nil
	s.filters = types.SearchFilters{}
	s.sortBy = types.SortRelevance
	s.page = 1
}
