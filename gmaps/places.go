package gmaps

import (
	"context"
	"net/url"
	"strconv"
)

// Place is one result of a nearby search.
type Place struct {
	Name        string   `json:"name"`
	Vicinity    string   `json:"vicinity"`
	Location    LatLng   `json:"location"`
	Rating      float64  `json:"rating,omitempty"`
	UserRatings int      `json:"user_ratings_total,omitempty"`
	PlaceID     string   `json:"place_id"`
	Types       []string `json:"types,omitempty"`
	OpenNow     *bool    `json:"open_now,omitempty"`
}

// NearbyQuery narrows a nearby search. Radius is in meters and defaults to
// 2000 when zero. Type takes a places API category such as "park" or
// "cafe"; Keyword is free text.
type NearbyQuery struct {
	Location LatLng
	Radius   int
	Type     string
	Keyword  string
}

type nearbyEnvelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name     string  `json:"name"`
		Vicinity string  `json:"vicinity"`
		PlaceID  string  `json:"place_id"`
		Rating   float64 `json:"rating"`
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		Types            []string `json:"types"`
		OpeningHours     *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

const defaultNearbyRadius = 2000

// NearbySearch finds places around a point.
func (c *Client) NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error) {
	radius := q.Radius
	if radius <= 0 {
		radius = defaultNearbyRadius
	}

	query := url.Values{}
	query.Set("location", q.Location.String())
	query.Set("radius", strconv.Itoa(radius))
	if q.Type != "" {
		query.Set("type", q.Type)
	}
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}

	var envelope nearbyEnvelope
	if err := c.get(ctx, "place/nearbysearch/json", query, &envelope); err != nil {
		return nil, err
	}
	if err := checkStatus(envelope.Status, envelope.ErrorMessage); err != nil {
		return nil, err
	}

	places := make([]Place, len(envelope.Results))
	for i, r := range envelope.Results {
		place := Place{
			Name:        r.Name,
			Vicinity:    r.Vicinity,
			Location:    r.Geometry.Location,
			Rating:      r.Rating,
			UserRatings: r.UserRatingsTotal,
			PlaceID:     r.PlaceID,
			Types:       r.Types,
		}
		if r.OpeningHours != nil {
			open := r.OpeningHours.OpenNow
			place.OpenNow = &open
		}
		places[i] = place
	}
	return places, nil
}
