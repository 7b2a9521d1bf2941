package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Antirender/moodpeek1/pkg/model"
	"go.uber.org/zap"
)

// Client looks up current conditions for a city via an Open-Meteo-style pair
// of endpoints (geocoding, then forecast). No credential is required.
type Client struct {
	geocodeBaseURL  string
	forecastBaseURL string
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewClient creates a weather client with a bounded request timeout.
func NewClient(geocodeBaseURL, forecastBaseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		geocodeBaseURL:  geocodeBaseURL,
		forecastBaseURL: forecastBaseURL,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    int     `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns a weather snapshot for the named city.
func (c *Client) Current(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode city: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,weather_code",
		c.forecastBaseURL, lat, lon,
	)

	var payload forecastResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	snapshot := &model.WeatherSnapshot{
		TemperatureC: payload.Current.Temperature,
		Humidity:     payload.Current.Humidity,
		Condition:    ConditionFromCode(payload.Current.WeatherCode),
	}

	c.logger.Debug("weather snapshot fetched",
		zap.String("city", city),
		zap.Float64("temperature_c", snapshot.TemperatureC),
		zap.String("condition", snapshot.Condition),
	)

	return snapshot, nil
}

func (c *Client) geocode(ctx context.Context, city string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/v1/search?name=%s&count=1", c.geocodeBaseURL, url.QueryEscape(city))

	var payload geocodeResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, 0, err
	}

	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding result for %q", city)
	}

	return payload.Results[0].Latitude, payload.Results[0].Longitude, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ConditionFromCode maps a WMO weather code onto the condition labels the
// rest of the application understands.
func ConditionFromCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "clouds"
	case code == 45 || code == 48:
		return "mist"
	case code >= 51 && code <= 57:
		return "drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "snow"
	case code >= 95 && code <= 99:
		return "thunderstorm"
	default:
		return "clouds"
	}
}
