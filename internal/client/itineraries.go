package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ListItineraries fetches the user's saved trip plans.
func (c *Client) ListItineraries(ctx context.Context) ([]types.SavedItinerary, error) {
	var out []types.SavedItinerary
	if err := c.do(ctx, http.MethodGet, "/itineraries", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return out, nil
}

func (c *Client) GetItinerary(ctx context.Context, id string) (*types.SavedItinerary, error) {
	var out types.SavedItinerary
	if err := c.do(ctx, http.MethodGet, "/itineraries/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch itinerary %s: %w", id, err)
	}
	return &out, nil
}

// CreateItinerary persists a working plan server-side.
func (c *Client) CreateItinerary(ctx context.Context, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	var out types.SavedItinerary
	if err := c.do(ctx, http.MethodPost, "/itineraries", req, &out); err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}
	return &out, nil
}

// UpdateItineraryItems replaces the stop list of a saved itinerary, which
// is how day/order edits made in the full editor get persisted.
func (c *Client) UpdateItineraryItems(ctx context.Context, id string, items []types.Stop) (*types.SavedItinerary, error) {
	var out types.SavedItinerary
	path := "/itineraries/" + url.PathEscape(id) + "/items"
	if err := c.do(ctx, http.MethodPut, path, map[string]interface{}{"items": items}, &out); err != nil {
		return nil, fmt.Errorf("failed to update itinerary items: %w", err)
	}
	return &out, nil
}

func (c *Client) DeleteItinerary(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/itineraries/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete itinerary %s: %w", id, err)
	}
	return nil
}
