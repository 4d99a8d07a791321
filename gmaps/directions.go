package gmaps

import (
	"context"
	"net/url"
	"strings"
)

// Route is one walking route alternative, with its legs already summed.
type Route struct {
	Summary         string   `json:"summary"`
	DistanceMeters  int      `json:"distance_meters"`
	DurationSeconds int      `json:"duration_seconds"`
	StartAddress    string   `json:"start_address"`
	EndAddress      string   `json:"end_address"`
	StartLocation   LatLng   `json:"start_location"`
	EndLocation     LatLng   `json:"end_location"`
	Polyline        string   `json:"polyline"`
	Warnings        []string `json:"warnings,omitempty"`
}

// DistanceKm returns the route length in kilometers.
func (r Route) DistanceKm() float64 {
	return float64(r.DistanceMeters) / 1000
}

// DirectionsQuery describes a walking directions request. Origin and
// Destination accept addresses or "lat,lng" strings; Waypoints are visited
// in order.
type DirectionsQuery struct {
	Origin      string
	Destination string
	Waypoints   []string
}

type directionsEnvelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Summary string `json:"summary"`
		Legs    []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			StartAddress  string `json:"start_address"`
			EndAddress    string `json:"end_address"`
			StartLocation LatLng `json:"start_location"`
			EndLocation   LatLng `json:"end_location"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Warnings []string `json:"warnings"`
	} `json:"routes"`
}

// WalkingDirections plans walking routes between two points. Highways are
// always avoided and alternatives are requested so the route builder has
// options to grade.
func (c *Client) WalkingDirections(ctx context.Context, q DirectionsQuery) ([]Route, error) {
	query := url.Values{}
	query.Set("origin", q.Origin)
	query.Set("destination", q.Destination)
	query.Set("mode", "walking")
	query.Set("avoid", "highways")
	query.Set("alternatives", "true")
	if len(q.Waypoints) > 0 {
		query.Set("waypoints", strings.Join(q.Waypoints, "|"))
	}

	var envelope directionsEnvelope
	if err := c.get(ctx, "directions/json", query, &envelope); err != nil {
		return nil, err
	}
	if err := checkStatus(envelope.Status, envelope.ErrorMessage); err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(envelope.Routes))
	for _, r := range envelope.Routes {
		if len(r.Legs) == 0 {
			continue
		}

		route := Route{
			Summary:       r.Summary,
			StartAddress:  r.Legs[0].StartAddress,
			EndAddress:    r.Legs[len(r.Legs)-1].EndAddress,
			StartLocation: r.Legs[0].StartLocation,
			EndLocation:   r.Legs[len(r.Legs)-1].EndLocation,
			Polyline:      r.OverviewPolyline.Points,
			Warnings:      r.Warnings,
		}
		for _, leg := range r.Legs {
			route.DistanceMeters += leg.Distance.Value
			route.DurationSeconds += leg.Duration.Value
		}
		routes = append(routes, route)
	}
	if len(routes) == 0 {
		return nil, ErrNoResults
	}
	return routes, nil
}
