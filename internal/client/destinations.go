package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// SearchDestinations runs a destination search through the trip backend.
// This is the fallback place provider when no commercial places API key
// is configured.
func (c *Client) SearchDestinations(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if location != "" {
		params.Set("location", location)
	}
	var out []types.SearchResult
	if err := c.do(ctx, http.MethodGet, "/destinations/search?"+params.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("destination search failed: %w", err)
	}
	return out, nil
}

// SearchPlaces makes the client satisfy the place provider contract.
func (c *Client) SearchPlaces(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	return c.SearchDestinations(ctx, query, location)
}
