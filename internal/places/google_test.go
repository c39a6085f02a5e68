package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newGoogleTestServer(t *testing.T, response types.PlacesSearchResponse, capture *http.Request) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = *r
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGoogleProvider_SearchPlaces(t *testing.T) {
	ctx := context.Background()

	t.Run("maps results onto the common shape", func(t *testing.T) {
		vicinity := "Rua Augusta"
		rating := 4.5
		price := 2
		response := types.PlacesSearchResponse{
			Status: "OK",
			Results: []types.PlaceResult{{
				PlaceID:      "p1",
				Name:         "Arco da Rua Augusta",
				Geometry:     types.Geometry{Location: types.Location{Lat: 38.708, Lng: -9.136}},
				Vicinity:     &vicinity,
				Types:        []string{"tourist_attraction", "point_of_interest"},
				Rating:       &rating,
				PriceLevel:   &price,
				OpeningHours: &types.OpeningHours{OpenNow: true},
				Photos:       []types.PlacePhoto{{PhotoReference: "photo-ref-1"}},
			}},
		}

		var captured http.Request
		server := newGoogleTestServer(t, response, &captured)
		provider := NewGoogleProvider(server.URL, "test-key", server.Client())

		results, err := provider.SearchPlaces(ctx, "lisbon landmarks", "38.72,-9.14")
		require.NoError(t, err)
		require.Len(t, results, 1)

		got := results[0]
		assert.Equal(t, "p1", got.PlaceID)
		assert.Equal(t, "tourist_attraction", got.Category)
		assert.Equal(t, "Rua Augusta", got.Address)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 4.5, *got.Rating)
		require.NotNil(t, got.OpenNow)
		assert.True(t, *got.OpenNow)
		assert.Equal(t, "photo-ref-1", got.PhotoRef)
		require.NotNil(t, got.Distance)
		assert.Greater(t, *got.Distance, 0.0)
		assert.Less(t, *got.Distance, 10.0)

		query := captured.URL.Query()
		assert.Equal(t, "lisbon landmarks", query.Get("query"))
		assert.Equal(t, "test-key", query.Get("key"))
		assert.Equal(t, "38.72,-9.14", query.Get("location"))
		assert.Equal(t, "10000", query.Get("radius"))
	})

	t.Run("no location means no distance or radius", func(t *testing.T) {
		response := types.PlacesSearchResponse{
			Status: "OK",
			Results: []types.PlaceResult{{
				PlaceID:  "p1",
				Name:     "Somewhere",
				Geometry: types.Geometry{Location: types.Location{Lat: 1, Lng: 1}},
			}},
		}

		var captured http.Request
		server := newGoogleTestServer(t, response, &captured)
		provider := NewGoogleProvider(server.URL, "test-key", server.Client())

		results, err := provider.SearchPlaces(ctx, "anything", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Distance)
		assert.Empty(t, captured.URL.Query().Get("radius"))
	})

	t.Run("zero results is not an error", func(t *testing.T) {
		server := newGoogleTestServer(t, types.PlacesSearchResponse{Status: "ZERO_RESULTS"}, nil)
		provider := NewGoogleProvider(server.URL, "test-key", server.Client())

		results, err := provider.SearchPlaces(ctx, "nothing here", "")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("denied key surfaces the API status", func(t *testing.T) {
		server := newGoogleTestServer(t, types.PlacesSearchResponse{Status: "REQUEST_DENIED"}, nil)
		provider := NewGoogleProvider(server.URL, "bad-key", server.Client())

		_, err := provider.SearchPlaces(ctx, "lisbon", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})
}

func TestParseLocation(t *testing.T) {
	lat, lng, ok := parseLocation("38.72, -9.14")
	require.True(t, ok)
	assert.Equal(t, 38.72, lat)
	assert.Equal(t, -9.14, lng)

	_, _, ok = parseLocation("not-a-location")
	assert.False(t, ok)

	_, _, ok = parseLocation("")
	assert.False(t, ok)
}

func TestCalculateDistance(t *testing.T) {
	// Lisbon to Porto is roughly 274 km as the crow flies.
	d := calculateDistance(38.7223, -9.1393, 41.1579, -8.6291)
	assert.InDelta(t, 274, d, 10)

	assert.Zero(t, calculateDistance(38.7, -9.1, 38.7, -9.1))
}
