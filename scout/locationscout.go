package scout

import (
	"context"

	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/tool"
	"github.com/scoutrun/routescout/trailapi"
)

const (
	trailheadRadius = 5000
	maxPlaces       = 5
	maxSegments     = 10
)

// amenityTypes maps runner vocabulary to places API categories. Unknown
// amenities pass through as keywords.
var amenityTypes = map[string]string{
	"restroom": "toilet",
	"water":    "park",
	"cafe":     "cafe",
	"coffee":   "cafe",
	"parking":  "parking",
	"store":    "convenience_store",
}

type trailheadsResult struct {
	status
	Area       string        `json:"area,omitempty"`
	Location   gmaps.LatLng  `json:"location,omitempty"`
	Trailheads []gmaps.Place `json:"trailheads,omitempty"`
}

func (s *Scout) findTrailheads(area string) trailheadsResult {
	resolved, err := s.resolve(area)
	if err != nil {
		return trailheadsResult{status: errStatus(err)}
	}

	parks, err := s.maps.NearbySearch(context.Background(), gmaps.NearbyQuery{
		Location: resolved.Location,
		Radius:   trailheadRadius,
		Type:     "park",
	})
	if err != nil {
		return trailheadsResult{status: errStatus(err)}
	}
	if len(parks) > maxPlaces {
		parks = parks[:maxPlaces]
	}

	return trailheadsResult{
		status:     okStatus(),
		Area:       resolved.FormattedAddress,
		Location:   resolved.Location,
		Trailheads: parks,
	}
}

type amenitiesResult struct {
	status
	Area      string        `json:"area,omitempty"`
	Amenity   string        `json:"amenity,omitempty"`
	Amenities []gmaps.Place `json:"amenities,omitempty"`
}

func (s *Scout) findAmenities(area, amenity string) amenitiesResult {
	resolved, err := s.resolve(area)
	if err != nil {
		return amenitiesResult{status: errStatus(err)}
	}

	query := gmaps.NearbyQuery{Location: resolved.Location}
	if placeType, ok := amenityTypes[amenity]; ok {
		query.Type = placeType
	} else {
		query.Keyword = amenity
	}

	places, err := s.maps.NearbySearch(context.Background(), query)
	if err != nil {
		return amenitiesResult{status: errStatus(err)}
	}
	if len(places) > maxPlaces {
		places = places[:maxPlaces]
	}

	return amenitiesResult{
		status:    okStatus(),
		Area:      resolved.FormattedAddress,
		Amenity:   amenity,
		Amenities: places,
	}
}

type segmentsResult struct {
	status
	Area     string             `json:"area,omitempty"`
	Segments []trailapi.Segment `json:"segments,omitempty"`
}

func (s *Scout) exploreSegments(area string, radiusKm float64) segmentsResult {
	if s.strava == nil {
		return segmentsResult{status: errMessage("strava access token not configured")}
	}

	resolved, err := s.resolve(area)
	if err != nil {
		return segmentsResult{status: errStatus(err)}
	}

	segments, err := s.strava.ExploreSegments(context.Background(), resolved.Location, radiusKm)
	if err != nil {
		return segmentsResult{status: errStatus(err)}
	}
	if len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}

	return segmentsResult{
		status:   okStatus(),
		Area:     resolved.FormattedAddress,
		Segments: segments,
	}
}

type trailsResult struct {
	status
	Area   string           `json:"area,omitempty"`
	Trails []trailapi.Trail `json:"trails,omitempty"`
}

func (s *Scout) listTrails(area string) trailsResult {
	if s.hiking == nil {
		return trailsResult{status: errMessage("hiking project api key not configured")}
	}

	resolved, err := s.resolve(area)
	if err != nil {
		return trailsResult{status: errStatus(err)}
	}

	trails, err := s.hiking.Trails(context.Background(), resolved.Location.Lat, resolved.Location.Lng, 0)
	if err != nil {
		return trailsResult{status: errStatus(err)}
	}

	return trailsResult{
		status: okStatus(),
		Area:   resolved.FormattedAddress,
		Trails: trails,
	}
}

// LocationScout builds the agent that maps out where to run: trailheads,
// named trails, popular segments, and the amenities around them.
func (s *Scout) LocationScout() api.Agent {
	return agent.New(
		agent.Name("location_scout"),
		agent.Model(s.model),
		agent.Instructions(locationScoutPrompt),
		agent.Tools(
			tool.Must(s.findTrailheads,
				tool.Name("find_trailheads"),
				tool.Description("Find parks and trailheads suitable for running near an area."),
				tool.Parameters("area"),
			),
			tool.Must(s.findAmenities,
				tool.Name("find_amenities"),
				tool.Description("Find runner amenities (restroom, water, cafe, parking, store) near an area."),
				tool.Parameters("area", "amenity"),
			),
			tool.Must(s.exploreSegments,
				tool.Name("explore_segments"),
				tool.Description("Find popular running segments within a radius in kilometers around an area."),
				tool.Parameters("area", "radius_km"),
			),
			tool.Must(s.listTrails,
				tool.Name("list_trails"),
				tool.Description("List curated trails with difficulty and ratings near an area."),
				tool.Parameters("area"),
			),
		),
	)
}
