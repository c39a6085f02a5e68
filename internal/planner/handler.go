package planner

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetStateHandler(w http.ResponseWriter, r *http.Request)
	SetDatesHandler(w http.ResponseWriter, r *http.Request)
	UpdateSettingsHandler(w http.ResponseWriter, r *http.Request)
	AddStopHandler(w http.ResponseWriter, r *http.Request)
	RemoveStopHandler(w http.ResponseWriter, r *http.Request)
	ReorderStopsHandler(w http.ResponseWriter, r *http.Request)
	UpdateStopDurationHandler(w http.ResponseWriter, r *http.Request)
	GetDaysHandler(w http.ResponseWriter, r *http.Request)
	ClearHandler(w http.ResponseWriter, r *http.Request)
	SaveHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(r.Context()))
}

func (h *HandlerImpl) SetDatesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SetDatesHandler"))

	var req types.SetDatesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	// Ordering is deliberately not checked here; the date form on the UI
	// side owns the end-after-start validation.
	h.service.SetDates(ctx, start, end)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(ctx))
}

func (h *HandlerImpl) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.UpdateSettingsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.service.UpdateSettings(ctx, req)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(ctx))
}

func (h *HandlerImpl) AddStopHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "AddStop")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddStopHandler"))

	var req types.AddStopRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "name is required")
		return
	}

	stop := h.service.AddStop(ctx, req)
	span.SetAttributes(attribute.String("stop.id", stop.ID), attribute.String("stop.category", stop.Category))
	span.SetStatus(codes.Ok, "Stop added")
	api.WriteJSONResponse(w, r, http.StatusCreated, stop)
}

func (h *HandlerImpl) RemoveStopHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	// Removal of an unknown id is a silent no-op, matching the store contract.
	h.service.RemoveStop(ctx, chi.URLParam(r, "stopID"))
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ReorderStopsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.ReorderStopsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.service.ReorderStops(ctx, req.FromIndex, req.ToIndex)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(ctx))
}

func (h *HandlerImpl) UpdateStopDurationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stopID := chi.URLParam(r, "stopID")

	var req types.UpdateStopDurationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.DurationHours <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "duration_hours must be positive")
		return
	}
	if !h.service.UpdateStopDuration(ctx, stopID, req.DurationHours) {
		api.ErrorResponse(w, r, http.StatusNotFound, "stop not found")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(ctx))
}

func (h *HandlerImpl) GetDaysHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GetDays")
	defer span.End()

	groups := h.service.StopsByDay(ctx)
	span.SetAttributes(attribute.Int("day_groups", len(groups)))
	span.SetStatus(codes.Ok, "Day layout returned")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"total_days": h.service.TotalDays(ctx),
		"days":       groups,
	})
}

func (h *HandlerImpl) ClearHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ClearHandler"))

	if err := h.service.Clear(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to clear itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to clear itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.State(ctx))
}

type saveRequest struct {
	Name string `json:"name"`
}

func (h *HandlerImpl) SaveHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "Save")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveHandler"))

	var req saveRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		req.Name = "My trip"
	}

	saved, err := h.service.SaveToBackend(ctx, req.Name)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to save itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to save itinerary: "+err.Error())
		return
	}

	l.InfoContext(ctx, "Itinerary saved", slog.String("itinerary_id", saved.ID))
	span.SetStatus(codes.Ok, "Itinerary saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}
