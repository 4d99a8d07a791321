package trailapi

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

const defaultHikingBaseURL = "https://www.hikingproject.com/data"

// Trail is a curated trail listing.
type Trail struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Summary    string  `json:"summary"`
	Difficulty string  `json:"difficulty"`
	Stars      float64 `json:"stars"`
	Location   string  `json:"location"`
	LengthKm   float64 `json:"length_km"`
	AscentM    int     `json:"ascent_m"`
	DescentM   int     `json:"descent_m"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	URL        string  `json:"url"`
}

type HikingClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

var (
	WithHikingBaseURL    = opts.ForName[HikingClient, string]("baseURL")
	WithHikingHTTPClient = opts.ForName[HikingClient, *http.Client]("httpClient")
)

func NewHiking(apiKey string, options ...opts.Option[HikingClient]) (*HikingClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("trailapi: hiking project api key is required")
	}

	client := &HikingClient{
		apiKey:     apiKey,
		baseURL:    defaultHikingBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        slog.With(slogx.LoggerName("trailapi.hiking")),
	}
	if err := opts.Apply(client, options); err != nil {
		return nil, err
	}
	return client, nil
}

const milesToKm = 1.609

// Trails lists trails around a point. maxDistanceMiles defaults to 10, the
// upstream API speaks miles so lengths get converted to kilometers here.
func (c *HikingClient) Trails(ctx context.Context, lat, lng float64, maxDistanceMiles int) ([]Trail, error) {
	if maxDistanceMiles <= 0 {
		maxDistanceMiles = 10
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("maxDistance", strconv.Itoa(maxDistanceMiles))
	query.Set("maxResults", "10")
	query.Set("key", c.apiKey)

	u := fmt.Sprintf("%s/get-trails?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("trailapi: build hiking project request: %w", err)
	}

	c.log.DebugContext(ctx, "hiking project get-trails",
		slog.Float64("lat", lat), slog.Float64("lng", lng))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trailapi: hiking project: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trailapi: hiking project returned http %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Trails []struct {
			ID         int64   `json:"id"`
			Name       string  `json:"name"`
			Summary    string  `json:"summary"`
			Difficulty string  `json:"difficulty"`
			Stars      float64 `json:"stars"`
			Location   string  `json:"location"`
			Length     float64 `json:"length"`
			Ascent     int     `json:"ascent"`
			Descent    int     `json:"descent"`
			Latitude   float64 `json:"latitude"`
			Longitude  float64 `json:"longitude"`
			URL        string  `json:"url"`
		} `json:"trails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("trailapi: decode hiking project response: %w", err)
	}

	trails := make([]Trail, len(envelope.Trails))
	for i, t := range envelope.Trails {
		trails[i] = Trail{
			ID:         t.ID,
			Name:       t.Name,
			Summary:    t.Summary,
			Difficulty: t.Difficulty,
			Stars:      t.Stars,
			Location:   t.Location,
			LengthKm:   t.Length * milesToKm,
			AscentM:    t.Ascent,
			DescentM:   t.Descent,
			Latitude:   t.Latitude,
			Longitude:  t.Longitude,
			URL:        t.URL,
		}
	}
	return trails, nil
}
