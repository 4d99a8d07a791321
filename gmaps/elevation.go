package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ElevationPoint is one sample along a path.
type ElevationPoint struct {
	Elevation  float64 `json:"elevation"`
	Location   LatLng  `json:"location"`
	Resolution float64 `json:"resolution"`
}

type elevationEnvelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Elevation  float64 `json:"elevation"`
		Location   LatLng  `json:"location"`
		Resolution float64 `json:"resolution"`
	} `json:"results"`
}

const defaultElevationSamples = 20

// ElevationAlongPath samples elevation at evenly spaced points along the
// path. samples defaults to 20 when not positive.
func (c *Client) ElevationAlongPath(ctx context.Context, path []LatLng, samples int) ([]ElevationPoint, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("gmaps: elevation path needs at least 2 points, got %d", len(path))
	}
	if samples <= 0 {
		samples = defaultElevationSamples
	}

	segments := make([]string, len(path))
	for i, p := range path {
		segments[i] = p.String()
	}

	query := url.Values{}
	query.Set("path", strings.Join(segments, "|"))
	query.Set("samples", strconv.Itoa(samples))

	var envelope elevationEnvelope
	if err := c.get(ctx, "elevation/json", query, &envelope); err != nil {
		return nil, err
	}
	if err := checkStatus(envelope.Status, envelope.ErrorMessage); err != nil {
		return nil, err
	}

	points := make([]ElevationPoint, len(envelope.Results))
	for i, r := range envelope.Results {
		points[i] = ElevationPoint{
			Elevation:  r.Elevation,
			Location:   r.Location,
			Resolution: r.Resolution,
		}
	}
	return points, nil
}

// GainLoss sums the climbing and descending meters across the sampled
// points.
func GainLoss(points []ElevationPoint) (gain, loss float64) {
	for i := 1; i < len(points); i++ {
		delta := points[i].Elevation - points[i-1].Elevation
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	return gain, loss
}
