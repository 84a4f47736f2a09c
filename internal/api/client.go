package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchByCoordinates fetches prayer times for the given date and coordinates.
// A negative method or school lets the API pick its default.
func (c *Client) FetchByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))
	return getJSON[Response](ctx, c, endpoint, coordinateParams(lat, lon, method, school))
}

// FetchByCity fetches prayer times for the given date, city, and country.
func (c *Client) FetchByCity(ctx context.Context, date time.Time, city, country string, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timingsByCity/%s", c.BaseURL, date.Format("02-01-2006"))
	return getJSON[Response](ctx, c, endpoint, cityParams(city, country, method, school))
}

// FetchCalendarByCoordinates fetches a whole Gregorian month of prayer times.
func (c *Client) FetchCalendarByCoordinates(ctx context.Context, year, month int, lat, lon float64, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, month)
	return getJSON[CalendarResponse](ctx, c, endpoint, coordinateParams(lat, lon, method, school))
}

// FetchCalendarByCity fetches a whole Gregorian month of prayer times for a city.
func (c *Client) FetchCalendarByCity(ctx context.Context, year, month int, city, country string, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendarByCity/%d/%d", c.BaseURL, year, month)
	return getJSON[CalendarResponse](ctx, c, endpoint, cityParams(city, country, method, school))
}

// ToHijri converts a Gregorian day with the gToH endpoint.
// It makes Client a hijri.Converter.
func (c *Client) ToHijri(ctx context.Context, t time.Time) (hijri.Date, error) {
	endpoint := fmt.Sprintf("%s/gToH/%s", c.BaseURL, t.Format("02-01-2006"))
	resp, err := getJSON[ConversionResponse](ctx, c, endpoint, nil)
	if err != nil {
		return hijri.Date{}, err
	}
	return resp.Data.Hijri.ToDate()
}

// MonthToGregorian lists the Gregorian days of a Hijri month with the
// hToGCalendar endpoint.
func (c *Client) MonthToGregorian(ctx context.Context, month, year int) ([]time.Time, error) {
	endpoint := fmt.Sprintf("%s/hToGCalendar/%d/%d", c.BaseURL, month, year)
	resp, err := getJSON[ConversionCalendarResponse](ctx, c, endpoint, nil)
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(resp.Data))
	for _, d := range resp.Data {
		t, err := d.Gregorian.Time()
		if err != nil {
			return nil, err
		}
		days = append(days, t)
	}
	return days, nil
}

func coordinateParams(lat, lon float64, method, school int) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	setMethodAndSchool(params, method, school)
	return params
}

func cityParams(city, country string, method, school int) url.Values {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	setMethodAndSchool(params, method, school)
	return params
}

func setMethodAndSchool(params url.Values, method, school int) {
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}
	if school >= 0 {
		params.Set("school", strconv.Itoa(school))
	}
}

// getJSON performs a GET request and decodes the response into T after
// checking the API's own status code.
func getJSON[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (*T, error) {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read API response: %w", err)
	}

	var env struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if env.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", env.Code, env.Status)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	return &out, nil
}
