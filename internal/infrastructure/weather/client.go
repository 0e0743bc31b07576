package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// Day is one day of forecast, trimmed to what the calendar UI shows.
type Day struct {
	Date          string  `json:"date"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	PrecipChance  int     `json:"precip_chance"`
	WeatherCode   int     `json:"weather_code"`
}

// Forecast is the trimmed daily forecast for a location.
type Forecast struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Days      []Day   `json:"days"`
}

// Client fetches daily forecasts from an Open-Meteo compatible API.
type Client interface {
	DailyForecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error)
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

// openMeteoResponse mirrors the upstream payload; column arrays are indexed
// in lockstep with the time array.
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     struct {
		Time                     []string  `json:"time"`
		TemperatureMax           []float64 `json:"temperature_2m_max"`
		TemperatureMin           []float64 `json:"temperature_2m_min"`
		PrecipitationProbability []int     `json:"precipitation_probability_max"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"daily"`
}

func (c *client) DailyForecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error) {
	if days < 1 || days > 16 {
		days = 7
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code")
	q.Set("forecast_days", fmt.Sprintf("%d", days))
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d: %w", resp.StatusCode, domain.ErrStoreUnavailable)
	}

	var om openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&om); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	f := &Forecast{Latitude: om.Latitude, Longitude: om.Longitude}
	for i, date := range om.Daily.Time {
		d := Day{Date: date}
		if i < len(om.Daily.TemperatureMax) {
			d.TempMax = om.Daily.TemperatureMax[i]
		}
		if i < len(om.Daily.TemperatureMin) {
			d.TempMin = om.Daily.TemperatureMin[i]
		}
		if i < len(om.Daily.PrecipitationProbability) {
			d.PrecipChance = om.Daily.PrecipitationProbability[i]
		}
		if i < len(om.Daily.WeatherCode) {
			d.WeatherCode = om.Daily.WeatherCode[i]
		}
		f.Days = append(f.Days, d)
	}
	return f, nil
}
