package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ListTours fetches joinable group tours, optionally filtered by
// destination.
func (c *Client) ListTours(ctx context.Context, destination string) ([]types.Tour, error) {
	path := "/tours"
	if destination != "" {
		path += "?destination=" + url.QueryEscape(destination)
	}
	var out []types.Tour
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return out, nil
}

func (c *Client) GetTour(ctx context.Context, id string) (*types.Tour, error) {
	var out types.Tour
	if err := c.do(ctx, http.MethodGet, "/tours/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch tour %s: %w", id, err)
	}
	return &out, nil
}

// JoinTour books seats on a tour for the authenticated user.
func (c *Client) JoinTour(ctx context.Context, id string, seats int) (*types.TourBooking, error) {
	var out types.TourBooking
	path := "/tours/" + url.PathEscape(id) + "/join"
	if err := c.do(ctx, http.MethodPost, path, types.JoinTourRequest{Seats: seats}, &out); err != nil {
		return nil, fmt.Errorf("failed to join tour %s: %w", id, err)
	}
	return &out, nil
}

// CancelTour withdraws the user's booking.
func (c *Client) CancelTour(ctx context.Context, id string) error {
	path := "/tours/" + url.PathEscape(id) + "/join"
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to cancel tour %s: %w", id, err)
	}
	return nil
}

// ListLocalGuides fetches browsable guide profiles, optionally scoped to
// a city.
func (c *Client) ListLocalGuides(ctx context.Context, city string) ([]types.LocalGuide, error) {
	path := "/local-guides"
	if city != "" {
		path += "?city=" + url.QueryEscape(city)
	}
	var out []types.LocalGuide
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list local guides: %w", err)
	}
	return out, nil
}
