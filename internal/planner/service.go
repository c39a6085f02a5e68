package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/statestore"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultPartySize = 2

var _ Service = (*ServiceImpl)(nil)

// BackendSaver is the slice of the backend client the planner needs to
// persist a finished plan server-side.
type BackendSaver interface {
	CreateItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error)
}

// Service is the single source of truth for the working trip plan.
// Mutations apply to local state immediately; the backend only sees the
// plan when SaveToBackend is called.
type Service interface {
	State(ctx context.Context) types.ItineraryState
	SetDates(ctx context.Context, start, end time.Time)
	UpdateSettings(ctx context.Context, req types.UpdateSettingsRequest)
	AddStop(ctx context.Context, req types.AddStopRequest) types.Stop
	RemoveStop(ctx context.Context, id string)
	ReorderStops(ctx context.Context, fromIndex, toIndex int)
	UpdateStopDuration(ctx context.Context, id string, hours float64) bool
	Clear(ctx context.Context) error
	TotalDays(ctx context.Context) int
	StopsByDay(ctx context.Context) []types.DayGroup
	SaveToBackend(ctx context.Context, name string) (*types.SavedItinerary, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	persist statestore.Store
	backend BackendSaver

	mu     sync.Mutex
	state  types.ItineraryState
	lastID int64
}

// NewServiceImpl restores any persisted plan from the state store so a
// restart does not lose an unsaved trip.
func NewServiceImpl(persist statestore.Store, backend BackendSaver, logger *slog.Logger) *ServiceImpl {
	s := &ServiceImpl{
		logger:  logger,
		persist: persist,
		backend: backend,
		state:   defaultState(),
	}
	if persist != nil {
		state, ok, err := persist.LoadItinerary()
		if err != nil {
			logger.Error("Failed to restore itinerary state", slog.Any("error", err))
		} else if ok {
			s.state = state
			logger.Info("Restored in-progress itinerary", slog.Int("stops", len(state.Stops)))
		}
	}
	return s
}

func defaultState() types.ItineraryState {
	return types.ItineraryState{
		Settings: types.ItinerarySettings{
			PartySize: defaultPartySize,
			Pace:      types.PaceNormal,
		},
		Stops: []types.Stop{},
	}
}

func (s *ServiceImpl) State(ctx context.Context) types.ItineraryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateCopyLocked()
}

// SetDates stores both dates verbatim. Ordering is not validated here;
// the date form owns that check.
func (s *ServiceImpl) SetDates(ctx context.Context, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.StartDate = &start
	s.state.Settings.EndDate = &end
	s.persistLocked(ctx)
}

func (s *ServiceImpl) UpdateSettings(ctx context.Context, req types.UpdateSettingsRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.PartySize != nil && *req.PartySize > 0 {
		s.state.Settings.PartySize = *req.PartySize
	}
	if req.Pace != nil {
		s.state.Settings.Pace = *req.Pace
	}
	s.persistLocked(ctx)
}

// AddStop builds a Stop from the loosely-typed place payload and appends
// it. Missing categories get the fallback duration.
func (s *ServiceImpl) AddStop(ctx context.Context, req types.AddStopRequest) types.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := req.Category
	if category == "" && len(req.Types) > 0 {
		category = req.Types[0]
	}

	stop := types.Stop{
		ID:            s.nextStopIDLocked(),
		PlaceID:       req.PlaceID,
		Name:          req.Name,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		Category:      category,
		Rating:        req.Rating,
		PhotoRef:      req.PhotoRef,
		DurationHours: DefaultDuration(category),
		AddedAt:       time.Now().UTC(),
	}
	s.state.Stops = append(s.state.Stops, stop)
	s.logger.DebugContext(ctx, "Stop added to itinerary",
		slog.String("stop_id", stop.ID), slog.String("category", category))
	s.persistLocked(ctx)
	return stop
}

// RemoveStop filters the stop out by id. An unknown id is a silent no-op.
func (s *ServiceImpl) RemoveStop(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.state.Stops[:0]
	for _, stop := range s.state.Stops {
		if stop.ID != id {
			filtered = append(filtered, stop)
		}
	}
	s.state.Stops = filtered
	s.persistLocked(ctx)
}

// ReorderStops moves the stop at fromIndex to toIndex. Out-of-range
// indices are clamped into the list instead of leaving holes.
func (s *ServiceImpl) ReorderStops(ctx context.Context, fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.state.Stops)
	if n == 0 {
		return
	}
	fromIndex = clamp(fromIndex, 0, n-1)
	toIndex = clamp(toIndex, 0, n-1)
	if fromIndex == toIndex {
		return
	}

	stop := s.state.Stops[fromIndex]
	rest := append(s.state.Stops[:fromIndex], s.state.Stops[fromIndex+1:]...)
	s.state.Stops = append(rest[:toIndex], append([]types.Stop{stop}, rest[toIndex:]...)...)
	s.persistLocked(ctx)
}

// UpdateStopDuration replaces the duration on the matching stop, leaving
// every other field untouched. Reports whether the stop existed.
func (s *ServiceImpl) UpdateStopDuration(ctx context.Context, id string, hours float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Stops {
		if s.state.Stops[i].ID == id {
			s.state.Stops[i].DurationHours = hours
			s.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Clear resets dates, party size, pace and stops to defaults and drops
// the persisted snapshot.
func (s *ServiceImpl) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
	if s.persist == nil {
		return nil
	}
	if err := s.persist.ClearItinerary(); err != nil {
		return fmt.Errorf("failed to clear persisted itinerary: %w", err)
	}
	return nil
}

// TotalDays counts calendar days inclusively: a same-day trip is 1 day.
// The difference is taken as an absolute value, so an inverted range still
// reports a count instead of an error.
func (s *ServiceImpl) TotalDays(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalDays(s.state.Settings)
}

func totalDays(settings types.ItinerarySettings) int {
	if settings.StartDate == nil || settings.EndDate == nil {
		return 0
	}
	diff := math.Abs(settings.EndDate.Sub(*settings.StartDate).Hours()) / 24
	return int(math.Ceil(diff)) + 1
}

// StopsByDay partitions the stop list into contiguous per-day chunks:
// stops-per-day is ceil(totalStops/totalDays) scaled by the pace
// multiplier, floored at 1. Every day inside the date range gets a group,
// empty ones included, so the timeline always renders the full trip.
//
// This is a positional default layout, not a scheduler: no opening hours,
// travel time or geographic clustering go into it.
func (s *ServiceImpl) StopsByDay(ctx context.Context) []types.DayGroup {
	_, span := otel.Tracer("PlannerService").Start(ctx, "StopsByDay")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	days := totalDays(s.state.Settings)
	if days == 0 {
		span.SetStatus(codes.Ok, "No date range set")
		return []types.DayGroup{}
	}

	stops := s.state.Stops
	perDay := 1
	if len(stops) > 0 {
		base := math.Ceil(float64(len(stops)) / float64(days))
		perDay = int(math.Round(base * s.state.Settings.Pace.Multiplier()))
		if perDay < 1 {
			perDay = 1
		}
	}

	groups := make([]types.DayGroup, 0, days)
	for day := 0; day < days; day++ {
		start := day * perDay
		end := start + perDay
		if start > len(stops) {
			start = len(stops)
		}
		if end > len(stops) {
			end = len(stops)
		}
		chunk := make([]types.Stop, end-start)
		copy(chunk, stops[start:end])

		var total float64
		for _, stop := range chunk {
			total += stop.DurationHours
		}
		groups = append(groups, types.DayGroup{
			Day:        day + 1,
			Stops:      chunk,
			TotalHours: total,
		})
	}

	span.SetAttributes(attribute.Int("days", days), attribute.Int("stops_per_day", perDay))
	span.SetStatus(codes.Ok, "Day layout computed")
	return groups
}

// SaveToBackend posts the working plan to the remote itineraries endpoint.
// Local state is untouched either way; a failed save just leaves the plan
// unsynced for the user to retry.
func (s *ServiceImpl) SaveToBackend(ctx context.Context, name string) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "SaveToBackend")
	defer span.End()

	if s.backend == nil {
		return nil, fmt.Errorf("no backend client configured")
	}

	s.mu.Lock()
	state := s.stateCopyLocked()
	s.mu.Unlock()

	saved, err := s.backend.CreateItinerary(ctx, types.SaveItineraryRequest{
		Name:      name,
		StartDate: state.Settings.StartDate,
		EndDate:   state.Settings.EndDate,
		PartySize: state.Settings.PartySize,
		Pace:      state.Settings.Pace,
		Items:     state.Stops,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save itinerary to backend", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}

	s.logger.InfoContext(ctx, "Itinerary saved to backend", slog.String("itinerary_id", saved.ID))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return saved, nil
}

func (s *ServiceImpl) nextStopIDLocked() string {
	id := time.Now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return fmt.Sprintf("stop-%d", id)
}

func (s *ServiceImpl) stateCopyLocked() types.ItineraryState {
	out := s.state
	out.Stops = make([]types.Stop, len(s.state.Stops))
	copy(out.Stops, s.state.Stops)
	return out
}

func (s *ServiceImpl) persistLocked(ctx context.Context) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveItinerary(s.state); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist itinerary state", slog.Any("error", err))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
