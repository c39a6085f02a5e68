package search

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/places"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	RunSearchHandler(w http.ResponseWriter, r *http.Request)
	GetResultsHandler(w http.ResponseWriter, r *http.Request)
	UpdateFiltersHandler(w http.ResponseWriter, r *http.Request)
	SetSortHandler(w http.ResponseWriter, r *http.Request)
	SetPageHandler(w http.ResponseWriter, r *http.Request)
	ResetFiltersHandler(w http.ResponseWriter, r *http.Request)
	ClearHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	places  places.Service
}

func NewHandler(service Service, placesService places.Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		places:  placesService,
	}
}

// RunSearchHandler executes a destination search and replaces the stored
// raw result set. Rapid re-queries are the UI's problem (it debounces);
// the engine just runs what it is told.
func (h *HandlerImpl) RunSearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchHandler").Start(r.Context(), "RunSearch")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RunSearchHandler"))

	var req types.RunSearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "query is required")
		return
	}
	span.SetAttributes(attribute.String("search.query", req.Query))

	results, err := h.places.Search(ctx, req.Query, req.Location)
	if err != nil {
		l.ErrorContext(ctx, "Place search failed", slog.Any("error", err), slog.String("query", req.Query))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Search failed: "+err.Error())
		return
	}

	h.service.SetResults(ctx, req.Query, results)
	span.SetAttributes(attribute.Int("search.results", len(results)))
	span.SetStatus(codes.Ok, "Search completed")
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(ctx))
}

func (h *HandlerImpl) GetResultsHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(r.Context()))
}

func (h *HandlerImpl) UpdateFiltersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.UpdateFiltersRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.service.SetFilters(ctx, req)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(ctx))
}

func (h *HandlerImpl) SetSortHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.SetSortRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch req.SortBy {
	case types.SortRelevance, types.SortRating, types.SortDistance:
	default:
		api.ErrorResponse(w, r, http.StatusBadRequest, "sort_by must be relevance, rating or distance")
		return
	}
	h.service.SetSort(ctx, req.SortBy)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(ctx))
}

func (h *HandlerImpl) SetPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.SetPageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.service.SetPage(ctx, req.Page)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(ctx))
}

func (h *HandlerImpl) ResetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.ResetFilters(ctx)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.PaginatedResults(ctx))
}

func (h *HandlerImpl) ClearHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.ClearSearch(ctx)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
