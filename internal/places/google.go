package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Provider = (*GoogleProvider)(nil)

// GoogleProvider queries the commercial places API. It is only wired in
// when an API key is configured; otherwise the engine falls back to the
// trip backend's own destination search.
type GoogleProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGoogleProvider(baseURL, apiKey string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

func (p *GoogleProvider) SearchPlaces(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", p.apiKey)
	if location != "" {
		params.Set("location", location)
		params.Set("radius", "10000")
	}

	endpoint := fmt.Sprintf("%s/textsearch/json?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var body types.PlacesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s", body.Status)
	}

	originLat, originLng, hasOrigin := parseLocation(location)

	results := make([]types.SearchResult, 0, len(body.Results))
	for _, hit := range body.Results {
		res := types.SearchResult{
			PlaceID:   hit.PlaceID,
			Name:      hit.Name,
			Latitude:  hit.Geometry.Location.Lat,
			Longitude: hit.Geometry.Location.Lng,
			Types:     hit.Types,
			Rating:    hit.Rating,
		}
		if len(hit.Types) > 0 {
			res.Category = hit.Types[0]
		}
		if hit.Vicinity != nil {
			res.Address = *hit.Vicinity
		}
		if hit.PriceLevel != nil {
			res.PriceLevel = hit.PriceLevel
		}
		if hit.OpeningHours != nil {
			open := hit.OpeningHours.OpenNow
			res.OpenNow = &open
		}
		if len(hit.Photos) > 0 {
			res.PhotoRef = hit.Photos[0].PhotoReference
		}
		if hasOrigin {
			d := calculateDistance(originLat, originLng, res.Latitude, res.Longitude)
			res.Distance = &d
		}
		results = append(results, res)
	}
	return results, nil
}

// parseLocation splits a "lat,lng" string. Malformed input just means no
// distance gets attached to the results.
func parseLocation(location string) (lat, lng float64, ok bool) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
