// Package weather fetches race-day conditions from the Open-Meteo forecast
// API and converts them into simulation inputs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Open-Meteo forecast endpoint. No API key
// required.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// GroundWindFactor scales the 10 m forecast wind down to what a runner
// feels at street level, where buildings and terrain shield most of it.
const GroundWindFactor = 0.5

// Conditions is the current weather at a course location.
type Conditions struct {
	Latitude    float64
	Longitude   float64
	TempC       float64
	WindSpeedMS float64 // at 10 m, as reported
	WindFromDeg float64 // meteorological direction the wind blows from
	Time        time.Time
}

// GroundWindMS is the forecast wind attenuated to runner height.
func (c Conditions) GroundWindMS() float64 {
	return c.WindSpeedMS * GroundWindFactor
}

// Client talks to the Open-Meteo API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client against the public API. baseURL overrides the
// endpoint when non-empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type apiResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// Current fetches the present conditions at a location. Wind speed is
// requested in m/s to match the simulation's units.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,wind_speed_10m,wind_direction_10m&wind_speed_unit=ms&temperature_unit=celsius&timezone=UTC",
		c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	parsed, err := time.Parse("2006-01-02T15:04", apiResp.Current.Time)
	if err != nil {
		return nil, fmt.Errorf("parsing weather time: %w", err)
	}

	return &Conditions{
		Latitude:    apiResp.Latitude,
		Longitude:   apiResp.Longitude,
		TempC:       apiResp.Current.Temperature,
		WindSpeedMS: apiResp.Current.WindSpeed,
		WindFromDeg: apiResp.Current.WindDirection,
		Time:        parsed.UTC(),
	}, nil
}
