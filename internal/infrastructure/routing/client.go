package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// Route is a driving route summary between two points.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Summary         string  `json:"summary"`
}

// Client fetches driving routes from an OSRM-compatible API.
type Client interface {
	DrivingRoute(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error)
}

type client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) Client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Summary string `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

func (c *client) DrivingRoute(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	// OSRM expects lon,lat ordering.
	u := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		c.baseURL, fromLon, fromLat, toLon, toLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing api status %d: %w", resp.StatusCode, domain.ErrStoreUnavailable)
	}

	var or osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if or.Code != "Ok" || len(or.Routes) == 0 {
		return nil, fmt.Errorf("no route found: %w", domain.ErrNotFound)
	}

	r := &Route{
		DistanceMeters:  or.Routes[0].Distance,
		DurationSeconds: or.Routes[0].Duration,
	}
	if len(or.Routes[0].Legs) > 0 {
		r.Summary = or.Routes[0].Legs[0].Summary
	}
	return r, nil
}
