package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrDetectFailed is returned when the geolocation service answers but
// cannot place the caller.
var ErrDetectFailed = errors.New("geolocation failed")

// Location is a place detected from the caller's public IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Coordinate validates and returns the location's coordinate.
func (l Location) Coordinate() (Coordinate, error) {
	return NewCoordinate(l.Latitude, l.Longitude)
}

// ipAPIResponse is the ip-api.com JSON body, a superset of Location.
type ipAPIResponse struct {
	Location
	Status  string `json:"status"`
	Message string `json:"message"`
}

const ipAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detector looks up the caller's location. The zero value uses ip-api.com,
// which is free and needs no key, with a 5 second timeout.
type Detector struct {
	URL    string
	Client *http.Client
}

// Detect performs the lookup. An out-of-range answer is reported as
// ErrInvalidCoordinate.
func (d Detector) Detect(ctx context.Context) (*Location, error) {
	url, client := d.URL, d.Client
	if url == "" {
		url = ipAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrDetectFailed, body.Message)
	}

	loc := body.Location
	if _, err := loc.Coordinate(); err != nil {
		return nil, fmt.Errorf("geolocation returned %w", err)
	}
	return &loc, nil
}

// DetectLocation looks up the caller's location with the default Detector.
func DetectLocation(ctx context.Context) (*Location, error) {
	return Detector{}.Detect(ctx)
}
