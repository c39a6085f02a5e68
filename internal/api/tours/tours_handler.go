package tours

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/client"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

// Service is the slice of the backend client the tour handlers pass
// through to. No local state is kept for tours.
type Service interface {
	ListTours(ctx context.Context, destination string) ([]types.Tour, error)
	GetTour(ctx context.Context, id string) (*types.Tour, error)
	JoinTour(ctx context.Context, id string, seats int) (*types.TourBooking, error)
	CancelTour(ctx context.Context, id string) error
	ListLocalGuides(ctx context.Context, city string) ([]types.LocalGuide, error)
}

type Handler interface {
	ListToursHandler(w http.ResponseWriter, r *http.Request)
	GetTourHandler(w http.ResponseWriter, r *http.Request)
	JoinTourHandler(w http.ResponseWriter, r *http.Request)
	CancelTourHandler(w http.ResponseWriter, r *http.Request)
	ListLocalGuidesHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

func (h *HandlerImpl) ListToursHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListToursHandler"))

	tours, err := h.service.ListTours(ctx, r.URL.Query().Get("destination"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list tours", slog.Any("error", err))
		api.ErrorResponse(w, r, backendStatus(err), err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tours)
}

func (h *HandlerImpl) GetTourHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTourHandler"))

	tour, err := h.service.GetTour(ctx, chi.URLParam(r, "tourID"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch tour", slog.Any("error", err))
		api.ErrorResponse(w, r, backendStatus(err), err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tour)
}

func (h *HandlerImpl) JoinTourHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ToursHandler").Start(r.Context(), "JoinTour")
	defer span.End()
	l := h.logger.With(slog.String("handler", "JoinTourHandler"))

	tourID := chi.URLParam(r, "tourID")
	span.SetAttributes(attribute.String("tour.id", tourID))

	var req types.JoinTourRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Seats <= 0 {
		req.Seats = 1
	}

	booking, err := h.service.JoinTour(ctx, tourID, req.Seats)
	if err != nil {
		l.ErrorContext(ctx, "Failed to join tour", slog.Any("error", err), slog.String("tour_id", tourID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Join failed")
		api.ErrorResponse(w, r, backendStatus(err), err.Error())
		return
	}

	l.InfoContext(ctx, "Tour joined", slog.String("tour_id", tourID), slog.Int("seats", req.Seats))
	span.SetStatus(codes.Ok, "Tour joined")
	api.WriteJSONResponse(w, r, http.StatusCreated, booking)
}

func (h *HandlerImpl) CancelTourHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CancelTourHandler"))

	tourID := chi.URLParam(r, "tourID")
	if err := h.service.CancelTour(ctx, tourID); err != nil {
		l.ErrorContext(ctx, "Failed to cancel tour booking", slog.Any("error", err), slog.String("tour_id", tourID))
		api.ErrorResponse(w, r, backendStatus(err), err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListLocalGuidesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListLocalGuidesHandler"))

	guides, err := h.service.ListLocalGuides(ctx, r.URL.Query().Get("city"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list local guides", slog.Any("error", err))
		api.ErrorResponse(w, r, backendStatus(err), err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, guides)
}

func backendStatus(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}
