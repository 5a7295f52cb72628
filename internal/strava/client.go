// Package strava is a minimal Strava API client covering route listing and
// GPX export, with rate limiting matching Strava's published limits.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const BaseURL = "https://www.strava.com/api/v3"

// Client is a Strava API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new Strava API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		baseURL:     BaseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithBaseURL creates a client against an alternate endpoint.
// This is only intended for use in tests.
func NewClientWithBaseURL(tokenSource oauth2.TokenSource, baseURL string) *Client {
	c := NewClient(tokenSource)
	c.baseURL = baseURL
	return c
}

// ListRoutes fetches one page of the athlete's routes.
func (c *Client) ListRoutes(ctx context.Context, athleteID int64, page, perPage int) ([]Route, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	path := fmt.Sprintf("/athletes/%d/routes", athleteID)
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var routes []Route
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		return nil, fmt.Errorf("decoding routes: %w", err)
	}

	return routes, nil
}

// GetAllRoutes fetches every route for an athlete, handling pagination and
// respecting rate limits.
func (c *Client) GetAllRoutes(ctx context.Context, athleteID int64) ([]Route, error) {
	var allRoutes []Route
	page := 1
	perPage := 100 // Max allowed by Strava

	for {
		routes, err := c.ListRoutes(ctx, athleteID, page, perPage)
		if err != nil {
			return allRoutes, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(routes) == 0 {
			break
		}

		allRoutes = append(allRoutes, routes...)

		if len(routes) < perPage {
			break // Last page
		}

		page++
	}

	return allRoutes, nil
}

// ExportRouteGPX downloads a route as a GPX document.
func (c *Client) ExportRouteGPX(ctx context.Context, routeID int64) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/routes/%d/export_gpx", routeID)
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gpx export: %w", err)
	}
	return data, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
