// Package trailapi collects the third-party trail data sources: Strava
// segment exploration, Hiking Project trail listings, and Mapbox walking
// directions as a fallback route engine.
package trailapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"

	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/pkg/slogx"
)

const defaultStravaBaseURL = "https://www.strava.com/api/v3"

// Segment is a popular running segment near the search area.
type Segment struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	DistanceMeters float64      `json:"distance_meters"`
	AvgGrade       float64      `json:"avg_grade"`
	ElevDifference float64      `json:"elev_difference"`
	ClimbCategory  int          `json:"climb_category"`
	Start          gmaps.LatLng `json:"start"`
	End            gmaps.LatLng `json:"end"`
}

type StravaClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	log         *slog.Logger
}

var (
	WithStravaBaseURL    = opts.ForName[StravaClient, string]("baseURL")
	WithStravaHTTPClient = opts.ForName[StravaClient, *http.Client]("httpClient")
)

func NewStrava(accessToken string, options ...opts.Option[StravaClient]) (*StravaClient, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("trailapi: strava access token is required")
	}

	client := &StravaClient{
		accessToken: accessToken,
		baseURL:     defaultStravaBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         slog.With(slogx.LoggerName("trailapi.strava")),
	}
	if err := opts.Apply(client, options); err != nil {
		return nil, err
	}
	return client, nil
}

// ExploreSegments finds running segments inside a square bounding box of
// radiusKm around center. One degree of latitude is close enough to 111km
// everywhere; longitude shrinks with the cosine of the latitude.
func (c *StravaClient) ExploreSegments(ctx context.Context, center gmaps.LatLng, radiusKm float64) ([]Segment, error) {
	if radiusKm <= 0 {
		radiusKm = 5
	}

	latOffset := radiusKm / 111
	lngOffset := radiusKm / (111 * math.Cos(center.Lat*math.Pi/180))
	bounds := fmt.Sprintf("%f,%f,%f,%f",
		center.Lat-latOffset, center.Lng-lngOffset,
		center.Lat+latOffset, center.Lng+lngOffset,
	)

	query := url.Values{}
	query.Set("bounds", bounds)
	query.Set("activity_type", "running")

	u := fmt.Sprintf("%s/segments/explore?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("trailapi: build strava request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	c.log.DebugContext(ctx, "strava segment explore", slog.String("bounds", bounds))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trailapi: strava explore: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trailapi: strava returned http %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Segments []struct {
			ID             int64     `json:"id"`
			Name           string    `json:"name"`
			Distance       float64   `json:"distance"`
			AvgGrade       float64   `json:"avg_grade"`
			ElevDifference float64   `json:"elev_difference"`
			ClimbCategory  int       `json:"climb_category"`
			StartLatLng    []float64 `json:"start_latlng"`
			EndLatLng      []float64 `json:"end_latlng"`
		} `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("trailapi: decode strava response: %w", err)
	}

	segments := make([]Segment, len(envelope.Segments))
	for i, s := range envelope.Segments {
		segment := Segment{
			ID:             s.ID,
			Name:           s.Name,
			DistanceMeters: s.Distance,
			AvgGrade:       s.AvgGrade,
			ElevDifference: s.ElevDifference,
			ClimbCategory:  s.ClimbCategory,
		}
		if len(s.StartLatLng) == 2 {
			segment.Start = gmaps.LatLng{Lat: s.StartLatLng[0], Lng: s.StartLatLng[1]}
		}
		if len(s.EndLatLng) == 2 {
			segment.End = gmaps.LatLng{Lat: s.EndLatLng[0], Lng: s.EndLatLng[1]}
		}
		segments[i] = segment
	}
	return segments, nil
}
