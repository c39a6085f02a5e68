package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func setupPlannerRouter(backend BackendSaver) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewServiceImpl(nil, backend, logger)
	handler := NewHandler(service, logger)

	r := chi.NewRouter()
	r.Route("/itinerary", func(r chi.Router) {
		r.Get("/", handler.GetStateHandler)
		r.Delete("/", handler.ClearHandler)
		r.Put("/dates", handler.SetDatesHandler)
		r.Put("/settings", handler.UpdateSettingsHandler)
		r.Get("/days", handler.GetDaysHandler)
		r.Post("/save", handler.SaveHandler)
		r.Post("/stops", handler.AddStopHandler)
		r.Post("/stops/reorder", handler.ReorderStopsHandler)
		r.Delete("/stops/{stopID}", handler.RemoveStopHandler)
		r.Patch("/stops/{stopID}/duration", handler.UpdateStopDurationHandler)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func TestAddStopHandler(t *testing.T) {
	router := setupPlannerRouter(nil)

	t.Run("adds a stop", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{
			Name:     "Castelo de São Jorge",
			Category: "tourist_attraction",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var stop types.Stop
		decodeBody(t, rr, &stop)
		assert.NotEmpty(t, stop.ID)
		assert.Equal(t, 1.5, stop.DurationHours)
	})

	t.Run("rejects a stop without a name", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{Category: "museum"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/itinerary/stops", bytes.NewReader([]byte("{oops")))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSetDatesHandler(t *testing.T) {
	router := setupPlannerRouter(nil)

	t.Run("accepts YYYY-MM-DD", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPut, "/itinerary/dates", types.SetDatesRequest{
			StartDate: "2025-06-01",
			EndDate:   "2025-06-03",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var state types.ItineraryState
		decodeBody(t, rr, &state)
		require.NotNil(t, state.Settings.StartDate)
		require.NotNil(t, state.Settings.EndDate)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPut, "/itinerary/dates", types.SetDatesRequest{
			StartDate: "06/01/2025",
			EndDate:   "2025-06-03",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDayLayoutOverHTTP(t *testing.T) {
	router := setupPlannerRouter(nil)

	rr := doJSON(t, router, http.MethodPut, "/itinerary/dates", types.SetDatesRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-03",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	for i := 0; i < 4; i++ {
		rr := doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{
			Name:     "Attraction",
			Category: "tourist_attraction",
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr = doJSON(t, router, http.MethodGet, "/itinerary/days", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		TotalDays int              `json:"total_days"`
		Days      []types.DayGroup `json:"days"`
	}
	decodeBody(t, rr, &resp)
	assert.Equal(t, 3, resp.TotalDays)
	require.Len(t, resp.Days, 3)
	assert.Len(t, resp.Days[0].Stops, 2)
	assert.Len(t, resp.Days[1].Stops, 2)
	assert.Empty(t, resp.Days[2].Stops)
	assert.InDelta(t, 3.0, resp.Days[0].TotalHours, 1e-9)
}

func TestStopLifecycleHandlers(t *testing.T) {
	router := setupPlannerRouter(nil)

	rr := doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{Name: "Gallery", Category: "art_gallery"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var stop types.Stop
	decodeBody(t, rr, &stop)

	t.Run("duration update on unknown stop is 404", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPatch, "/itinerary/stops/stop-missing/duration",
			types.UpdateStopDurationRequest{DurationHours: 2})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("duration must be positive", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPatch, "/itinerary/stops/"+stop.ID+"/duration",
			types.UpdateStopDurationRequest{DurationHours: -1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duration update succeeds", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPatch, "/itinerary/stops/"+stop.ID+"/duration",
			types.UpdateStopDurationRequest{DurationHours: 3})
		require.Equal(t, http.StatusOK, rr.Code)

		var state types.ItineraryState
		decodeBody(t, rr, &state)
		require.Len(t, state.Stops, 1)
		assert.Equal(t, 3.0, state.Stops[0].DurationHours)
	})

	t.Run("removing an unknown stop is still 204", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/itinerary/stops/stop-missing", nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("removing the stop empties the plan", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/itinerary/stops/"+stop.ID, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(t, router, http.MethodGet, "/itinerary", nil)
		var state types.ItineraryState
		decodeBody(t, rr, &state)
		assert.Empty(t, state.Stops)
	})
}

func TestReorderStopsHandler(t *testing.T) {
	router := setupPlannerRouter(nil)
	for _, name := range []string{"a", "b", "c"} {
		doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{Name: name})
	}

	rr := doJSON(t, router, http.MethodPost, "/itinerary/stops/reorder", types.ReorderStopsRequest{FromIndex: 2, ToIndex: 0})
	require.Equal(t, http.StatusOK, rr.Code)

	var state types.ItineraryState
	decodeBody(t, rr, &state)
	require.Len(t, state.Stops, 3)
	assert.Equal(t, "c", state.Stops[0].Name)
}

func TestSaveHandler(t *testing.T) {
	t.Run("saves through the backend", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("CreateItinerary", mock.Anything, mock.MatchedBy(func(req types.SaveItineraryRequest) bool {
			return req.Name == "Summer trip"
		})).Return(&types.SavedItinerary{ID: "itin-1", Name: "Summer trip"}, nil).Once()

		router := setupPlannerRouter(backend)
		doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{Name: "Stop"})

		rr := doJSON(t, router, http.MethodPost, "/itinerary/save", map[string]string{"name": "Summer trip"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var saved types.SavedItinerary
		decodeBody(t, rr, &saved)
		assert.Equal(t, "itin-1", saved.ID)
		backend.AssertExpectations(t)
	})

	t.Run("backend failure maps to 502", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("CreateItinerary", mock.Anything, mock.Anything).Return(nil, errors.New("backend down")).Once()

		router := setupPlannerRouter(backend)
		rr := doJSON(t, router, http.MethodPost, "/itinerary/save", map[string]string{"name": "Trip"})
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestClearHandler(t *testing.T) {
	router := setupPlannerRouter(nil)
	doJSON(t, router, http.MethodPost, "/itinerary/stops", types.AddStopRequest{Name: "Stop"})

	rr := doJSON(t, router, http.MethodDelete, "/itinerary", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var state types.ItineraryState
	decodeBody(t, rr, &state)
	assert.Empty(t, state.Stops)
}

var _ BackendSaver = (*MockBackend)(nil)
