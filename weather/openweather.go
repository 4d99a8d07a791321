// Package weather is a client for the OpenWeather current conditions API,
// which feeds the conditions scout.
package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"

	"github.com/scoutrun/routescout/pkg/slogx"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Conditions is a snapshot of current weather at a point, in metric units.
type Conditions struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	TempC       float64   `json:"temp_c"`
	FeelsLikeC  float64   `json:"feels_like_c"`
	Humidity    int       `json:"humidity"`
	WindSpeedMS float64   `json:"wind_speed_ms"`
	WindGustMS  float64   `json:"wind_gust_ms,omitempty"`
	VisibilityM int       `json:"visibility_m,omitempty"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

var (
	WithBaseURL    = opts.ForName[Client, string]("baseURL")
	WithHTTPClient = opts.ForName[Client, *http.Client]("httpClient")
)

func New(apiKey string, options ...opts.Option[Client]) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("weather: api key is required")
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        slog.With(slogx.LoggerName("weather")),
	}
	if err := opts.Apply(client, options); err != nil {
		return nil, err
	}
	return client, nil
}

// Current fetches the current conditions at a coordinate.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Conditions, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)

	u := fmt.Sprintf("%s/weather?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: build request: %w", err)
	}

	c.log.DebugContext(ctx, "openweather current",
		slog.Float64("lat", lat), slog.Float64("lng", lng))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: current conditions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Conditions{}, fmt.Errorf("weather: openweather returned http %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Gust  float64 `json:"gust"`
		} `json:"wind"`
		Visibility int `json:"visibility"`
		Sys        struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Conditions{}, fmt.Errorf("weather: decode response: %w", err)
	}

	conditions := Conditions{
		TempC:       envelope.Main.Temp,
		FeelsLikeC:  envelope.Main.FeelsLike,
		Humidity:    envelope.Main.Humidity,
		WindSpeedMS: envelope.Wind.Speed,
		WindGustMS:  envelope.Wind.Gust,
		VisibilityM: envelope.Visibility,
		Sunrise:     time.Unix(envelope.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(envelope.Sys.Sunset, 0).UTC(),
	}
	if len(envelope.Weather) > 0 {
		conditions.Summary = envelope.Weather[0].Main
		conditions.Description = envelope.Weather[0].Description
	}
	return conditions, nil
}
