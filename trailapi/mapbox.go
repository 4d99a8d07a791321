package trailapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"

	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/pkg/slogx"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

// MapboxRoute is one walking route alternative from the Mapbox directions
// engine, the fallback when Google directions come up empty.
type MapboxRoute struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        string  `json:"geometry"`
}

type MapboxClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	log         *slog.Logger
}

var (
	WithMapboxBaseURL    = opts.ForName[MapboxClient, string]("baseURL")
	WithMapboxHTTPClient = opts.ForName[MapboxClient, *http.Client]("httpClient")
)

func NewMapbox(accessToken string, options ...opts.Option[MapboxClient]) (*MapboxClient, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("trailapi: mapbox access token is required")
	}

	client := &MapboxClient{
		accessToken: accessToken,
		baseURL:     defaultMapboxBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         slog.With(slogx.LoggerName("trailapi.mapbox")),
	}
	if err := opts.Apply(client, options); err != nil {
		return nil, err
	}
	return client, nil
}

// WalkingRoutes plans walking routes through the coordinates. Mapbox wants
// lng,lat pairs separated by semicolons.
func (c *MapboxClient) WalkingRoutes(ctx context.Context, path []gmaps.LatLng) ([]MapboxRoute, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("trailapi: mapbox route needs at least 2 points, got %d", len(path))
	}

	pairs := make([]string, len(path))
	for i, p := range path {
		pairs[i] = fmt.Sprintf("%f,%f", p.Lng, p.Lat)
	}

	query := url.Values{}
	query.Set("access_token", c.accessToken)
	query.Set("geometries", "polyline")
	query.Set("overview", "full")
	query.Set("alternatives", "true")

	u := fmt.Sprintf("%s/directions/v5/mapbox/walking/%s?%s",
		c.baseURL, url.PathEscape(strings.Join(pairs, ";")), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("trailapi: build mapbox request: %w", err)
	}

	c.log.DebugContext(ctx, "mapbox walking directions", slog.Int("points", len(path)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trailapi: mapbox directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trailapi: mapbox returned http %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry string  `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("trailapi: decode mapbox response: %w", err)
	}
	if envelope.Code != "Ok" {
		return nil, fmt.Errorf("trailapi: mapbox code %s", envelope.Code)
	}

	routes := make([]MapboxRoute, len(envelope.Routes))
	for i, r := range envelope.Routes {
		routes[i] = MapboxRoute{
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
			Geometry:        r.Geometry,
		}
	}
	return routes, nil
}
