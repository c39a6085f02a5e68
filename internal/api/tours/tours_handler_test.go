package tours

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/client"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockToursService is a mock implementation of the Service interface
type MockToursService struct {
	mock.Mock
}

func (m *MockToursService) ListTours(ctx context.Context, destination string) ([]types.Tour, error) {
	args := m.Called(ctx, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Tour), args.Error(1)
}

func (m *MockToursService) GetTour(ctx context.Context, id string) (*types.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *MockToursService) JoinTour(ctx context.Context, id string, seats int) (*types.TourBooking, error) {
	args := m.Called(ctx, id, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TourBooking), args.Error(1)
}

func (m *MockToursService) CancelTour(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockToursService) ListLocalGuides(ctx context.Context, city string) ([]types.LocalGuide, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LocalGuide), args.Error(1)
}

var _ Service = (*MockToursService)(nil)

func setupToursRouter(service Service) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(service, logger)

	r := chi.NewRouter()
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", handler.ListToursHandler)
		r.Get("/{tourID}", handler.GetTourHandler)
		r.Post("/{tourID}/join", handler.JoinTourHandler)
		r.Delete("/{tourID}/join", handler.CancelTourHandler)
	})
	r.Get("/local-guides", handler.ListLocalGuidesHandler)
	return r
}

func TestListToursHandler(t *testing.T) {
	t.Run("passes the destination filter through", func(t *testing.T) {
		service := new(MockToursService)
		service.On("ListTours", mock.Anything, "lisbon").
			Return([]types.Tour{{ID: "tour-1", Title: "Old town walk"}}, nil).Once()

		router := setupToursRouter(service)
		req := httptest.NewRequest(http.MethodGet, "/tours?destination=lisbon", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var tours []types.Tour
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tours))
		require.Len(t, tours, 1)
		assert.Equal(t, "tour-1", tours[0].ID)
		service.AssertExpectations(t)
	})

	t.Run("backend status codes pass through", func(t *testing.T) {
		service := new(MockToursService)
		service.On("ListTours", mock.Anything, "").
			Return(nil, &client.APIError{StatusCode: http.StatusServiceUnavailable, Message: "Down for maintenance"}).Once()

		router := setupToursRouter(service)
		req := httptest.NewRequest(http.MethodGet, "/tours", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "Down for maintenance")
	})
}

func TestJoinTourHandler(t *testing.T) {
	t.Run("joins with the requested seats", func(t *testing.T) {
		service := new(MockToursService)
		service.On("JoinTour", mock.Anything, "tour-1", 3).
			Return(&types.TourBooking{ID: "booking-1", TourID: "tour-1", Seats: 3}, nil).Once()

		router := setupToursRouter(service)
		payload, _ := json.Marshal(types.JoinTourRequest{Seats: 3})
		req := httptest.NewRequest(http.MethodPost, "/tours/tour-1/join", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var booking types.TourBooking
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &booking))
		assert.Equal(t, "booking-1", booking.ID)
		service.AssertExpectations(t)
	})

	t.Run("seat count defaults to one", func(t *testing.T) {
		service := new(MockToursService)
		service.On("JoinTour", mock.Anything, "tour-1", 1).
			Return(&types.TourBooking{ID: "booking-2", Seats: 1}, nil).Once()

		router := setupToursRouter(service)
		req := httptest.NewRequest(http.MethodPost, "/tours/tour-1/join", bytes.NewReader([]byte(`{}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		service.AssertExpectations(t)
	})
}

func TestCancelTourHandler(t *testing.T) {
	service := new(MockToursService)
	service.On("CancelTour", mock.Anything, "tour-1").Return(nil).Once()

	router := setupToursRouter(service)
	req := httptest.NewRequest(http.MethodDelete, "/tours/tour-1/join", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	service.AssertExpectations(t)
}

func TestListLocalGuidesHandler(t *testing.T) {
	service := new(MockToursService)
	service.On("ListLocalGuides", mock.Anything, "porto").
		Return([]types.LocalGuide{{ID: "guide-1", Name: "Rui", City: "porto"}}, nil).Once()

	router := setupToursRouter(service)
	req := httptest.NewRequest(http.MethodGet, "/local-guides?city=porto", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var guides []types.LocalGuide
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guides))
	require.Len(t, guides, 1)
	assert.Equal(t, "guide-1", guides[0].ID)
	service.AssertExpectations(t)
}
